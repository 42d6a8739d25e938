package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Outcome classifies how a request ended.
type Outcome int

const (
	OK Outcome = iota
	ProtocolError
	ToolError
)

// UnknownMethod is the counter key shared by all unrecognised methods.
const UnknownMethod = "(unknown)"

// Recorder collects per-session request metrics.
type Recorder struct {
	mu sync.Mutex

	requestCount  int64
	protocolErrs  int64
	toolErrs      int64
	parseFailures int64
	byMethod      map[string]int64
	latencies     []float64 // rolling window for P95
	lastRequestAt time.Time
}

func New() *Recorder {
	return &Recorder{byMethod: make(map[string]int64)}
}

// RecordRequest records one dispatched request.
func (r *Recorder) RecordRequest(method string, latency time.Duration, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requestCount++
	r.byMethod[method]++
	r.lastRequestAt = time.Now()
	switch outcome {
	case ProtocolError:
		r.protocolErrs++
	case ToolError:
		r.toolErrs++
	}

	// Rolling latency window (keep last 100)
	r.latencies = append(r.latencies, float64(latency)/float64(time.Millisecond))
	if len(r.latencies) > 100 {
		r.latencies = r.latencies[len(r.latencies)-100:]
	}
}

// RecordParseFailure records a line that could not be decoded.
func (r *Recorder) RecordParseFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parseFailures++
}

// Snapshot is a point-in-time copy of the recorded metrics.
type Snapshot struct {
	RequestCount   int64
	ProtocolErrors int64
	ToolErrors     int64
	ParseFailures  int64
	ByMethod       map[string]int64
	P95LatencyMs   float64
	LastRequestAt  time.Time
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	byMethod := make(map[string]int64, len(r.byMethod))
	for k, v := range r.byMethod {
		byMethod[k] = v
	}
	return Snapshot{
		RequestCount:   r.requestCount,
		ProtocolErrors: r.protocolErrs,
		ToolErrors:     r.toolErrs,
		ParseFailures:  r.parseFailures,
		ByMethod:       byMethod,
		P95LatencyMs:   p95(r.latencies),
		LastRequestAt:  r.lastRequestAt,
	}
}

// String renders the snapshot as a single log line.
func (s Snapshot) String() string {
	methods := make([]string, 0, len(s.ByMethod))
	for m := range s.ByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = fmt.Sprintf("%s=%d", m, s.ByMethod[m])
	}
	return fmt.Sprintf("requests=%d protocol_errors=%d tool_errors=%d parse_failures=%d p95=%.1fms methods=[%s]",
		s.RequestCount, s.ProtocolErrors, s.ToolErrors, s.ParseFailures, s.P95LatencyMs, strings.Join(parts, " "))
}

func p95(latencies []float64) float64 {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * 0.95)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
