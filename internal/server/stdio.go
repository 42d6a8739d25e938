package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dublyo/m3u8-mcp/internal/mcp"
	"github.com/dublyo/m3u8-mcp/internal/metrics"
	"github.com/dublyo/m3u8-mcp/internal/tools"
)

// Server runs one MCP session over a line-oriented stream, normally
// stdin/stdout.
type Server struct {
	handler *mcp.Handler
	metrics *metrics.Recorder
	debug   bool
}

func New(handler *mcp.Handler, debug bool) *Server {
	return &Server{
		handler: handler,
		metrics: metrics.New(),
		debug:   debug,
	}
}

// Metrics returns the recorder for the running session.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// Run reads requests from r until end of input and writes one response line
// per request to w. Requests are handled strictly one at a time. It returns
// nil on end of input, the read/write error that ended the session, or the
// context error once ctx is cancelled, even if r is still open.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	sessionID := uuid.New().String()
	log.Printf("[server] session %s started", sessionID)
	defer func() {
		log.Printf("[server] session %s ended: %s", sessionID, s.metrics.Snapshot())
	}()

	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go readLines(r, lines, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var next readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next = <-lines:
		}

		if len(next.line) > 0 {
			if err := s.handleLine(ctx, next.line, w); err != nil {
				return err
			}
		}
		if next.err != nil {
			if errors.Is(next.err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", next.err)
		}
	}
}

type readResult struct {
	line []byte
	err  error
}

// readLines feeds lines to Run so that a cancelled context is noticed even
// while the input is idle. A read blocked on a never-closed input is left
// behind when Run returns.
func readLines(r io.Reader, lines chan<- readResult, done <-chan struct{}) {
	// bufio.Reader rather than Scanner so long lines are never rejected.
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		select {
		case lines <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line []byte, w io.Writer) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	req, err := mcp.Decode(line)
	if err != nil {
		s.metrics.RecordParseFailure()
		log.Printf("[server] %v", err)
		return s.write(w, mcp.NewParseErrorResponse(err))
	}

	if req.IsNotification() {
		if s.debug {
			log.Printf("[server] dropped notification %s", req.Method)
		}
		return nil
	}

	start := time.Now()
	resp := s.handler.Dispatch(ctx, req)
	elapsed := time.Since(start)
	s.metrics.RecordRequest(metricsMethod(req, resp), elapsed, outcomeOf(resp))
	if s.debug {
		log.Printf("[server] %s id=%s handled in %s", req.Method, req.ID, elapsed)
	}

	return s.write(w, resp)
}

// write emits one response line. An encode failure only drops that
// response; a write failure ends the session.
func (s *Server) write(w io.Writer, resp *mcp.Response) error {
	data, err := mcp.Encode(resp)
	if err != nil {
		log.Printf("[server] dropping response: %v", err)
		return nil
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func outcomeOf(resp *mcp.Response) metrics.Outcome {
	if resp.Error != nil {
		return metrics.ProtocolError
	}
	if res, ok := resp.Result.(tools.Result); ok && res.IsError {
		return metrics.ToolError
	}
	return metrics.OK
}

// metricsMethod buckets methods the dispatcher does not know so client
// input cannot grow the per-method counters.
func metricsMethod(req *mcp.Request, resp *mcp.Response) string {
	if resp.Error != nil && resp.Error.Code == mcp.MethodNotFound {
		return metrics.UnknownMethod
	}
	return req.Method
}
