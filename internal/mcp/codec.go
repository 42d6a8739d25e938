package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	errMissingMethod = errors.New("missing field `method`")
	errEmptyMethod   = errors.New("field `method` is empty")
)

// DecodeError is returned by Decode when a line is not a usable request.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Parse error: %s", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one line into a request. Blank lines must be filtered out by
// the caller before decoding.
//
// Members are looked up by exact name; encoding/json would otherwise accept
// "METHOD" or "Id" for the request fields.
func Decode(line []byte) (*Request, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(line, &members); err != nil {
		return nil, &DecodeError{Err: err}
	}

	rawMethod, ok := members["method"]
	if !ok || isNull(rawMethod) {
		return nil, &DecodeError{Err: errMissingMethod}
	}
	var method string
	if err := json.Unmarshal(rawMethod, &method); err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("field `method`: %w", err)}
	}
	if method == "" {
		return nil, &DecodeError{Err: errEmptyMethod}
	}

	var version string
	if raw, ok := members["jsonrpc"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("field `jsonrpc`: %w", err)}
		}
	}

	return &Request{
		JSONRPC: version,
		ID:      members["id"],
		Method:  method,
		Params:  members["params"],
	}, nil
}

// Encode serializes a response as a single compact JSON line. The line
// terminator is left to the caller.
func Encode(resp *Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// NewParseErrorResponse builds the reply for a line that could not be
// decoded. No id could be recovered, so it is null.
func NewParseErrorResponse(err error) *Response {
	return errorResponse(nullID, ParseError, err.Error())
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

func resultResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}
