package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dublyo/m3u8-mcp/internal/tools"
)

// Handler routes decoded JSON-RPC requests to the MCP methods served over
// the tool registry.
type Handler struct {
	registry *tools.Registry
	info     ServerInfo
}

func NewHandler(registry *tools.Registry, info ServerInfo) *Handler {
	return &Handler{registry: registry, info: info}
}

// Dispatch handles a request that carries an id and returns its response.
// Notifications must be filtered out by the caller.
func (h *Handler) Dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req)
	case "tools/list":
		return h.handleToolsList(req)
	case "tools/call":
		return h.handleToolsCall(ctx, req)
	case "ping":
		return resultResponse(req.ID, map[string]interface{}{})
	default:
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (h *Handler) handleInitialize(req *Request) *Response {
	return resultResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: Capabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: h.info,
	})
}

func (h *Handler) handleToolsList(req *Request) *Response {
	return resultResponse(req.ID, ToolsListResult{Tools: h.registry.Tools()})
}

func (h *Handler) handleToolsCall(ctx context.Context, req *Request) *Response {
	if !req.HasParams() {
		return errorResponse(req.ID, InvalidParams, "Missing params")
	}

	name, args := parseToolCallParams(req.Params)
	result := h.registry.Call(ctx, name, args)
	return resultResponse(req.ID, result)
}

// parseToolCallParams reads the tool name and arguments leniently. A params
// value that is not an object, a non-string name, or non-object arguments
// fall back to an empty name and empty arguments; the registry then reports
// a tool-level error instead of a protocol one.
func parseToolCallParams(raw json.RawMessage) (string, map[string]interface{}) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", map[string]interface{}{}
	}

	var name string
	if v, ok := fields["name"]; ok {
		if err := json.Unmarshal(v, &name); err != nil {
			name = ""
		}
	}

	args := map[string]interface{}{}
	if v, ok := fields["arguments"]; ok {
		var decoded map[string]interface{}
		if err := json.Unmarshal(v, &decoded); err == nil && decoded != nil {
			args = decoded
		}
	}
	return name, args
}
