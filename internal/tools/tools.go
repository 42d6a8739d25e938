package tools

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/qri-io/jsonschema"
)

// Tool describes an MCP tool together with the handler that serves it.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Handler     Handler            `json:"-"`
}

// Handler is implemented by every tool.
type Handler interface {
	Call(ctx context.Context, args map[string]interface{}) Result
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) Result

func (f HandlerFunc) Call(ctx context.Context, args map[string]interface{}) Result {
	return f(ctx, args)
}

// Result is the payload of a tools/call response. Tool failures are
// reported here with IsError set, never as JSON-RPC errors.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

type Content struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

// TextResult builds a successful single-text result.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// ErrorResult builds a tool-level error result.
func ErrorResult(format string, a ...interface{}) Result {
	return Result{
		Content: []Content{{Type: "text", Text: fmt.Sprintf(format, a...)}},
		IsError: true,
	}
}

// Registry is the fixed, ordered catalog of tools. It is built once at
// start-up and only read afterwards.
type Registry struct {
	tools []Tool
	index map[string]int
	debug bool
}

// NewRegistry registers tools in the given order. Duplicate names and tools
// without a handler panic.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.Handler == nil {
			panic(fmt.Sprintf("tools: %s has no handler", t.Name))
		}
		if _, dup := r.index[t.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %s", t.Name))
		}
		r.index[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r
}

// SetDebug enables logging of argument presence checks.
func (r *Registry) SetDebug(debug bool) {
	r.debug = debug
}

// Tools returns the descriptors in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the registered tool names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Call invokes the named tool. Unknown names yield a tool-level error.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) Result {
	t, ok := r.Lookup(name)
	if !ok {
		return ErrorResult("Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if r.debug {
		r.checkArgs(ctx, t, args)
	}
	return t.Handler.Call(ctx, args)
}

// checkArgs logs schema mismatches. Handlers substitute defaults for
// anything missing, so a mismatch never rejects the call.
func (r *Registry) checkArgs(ctx context.Context, t Tool, args map[string]interface{}) {
	if t.InputSchema == nil {
		return
	}
	vs := t.InputSchema.Validate(ctx, args)
	errs := *vs.Errs
	if len(errs) == 0 {
		return
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	log.Printf("[tools] %s: argument check: %s (defaults applied)", t.Name, strings.Join(msgs, ", "))
}
