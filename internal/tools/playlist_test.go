package tools

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestExtractSegments(t *testing.T) {
	tests := []struct {
		name     string
		playlist string
		want     []string
	}{
		{
			"headers comments and blanks",
			"#HEADER\nseg1.ts\n\nseg2.ts\n#COMMENT\nseg3.ts",
			[]string{"seg1.ts", "seg2.ts", "seg3.ts"},
		},
		{
			"crlf line endings",
			"#EXTM3U\r\n#EXTINF:10,\r\nhttp://cdn/a.ts\r\n#EXTINF:10,\r\nhttp://cdn/b.ts\r\n",
			[]string{"http://cdn/a.ts", "http://cdn/b.ts"},
		},
		{
			"whitespace-only lines are skipped",
			"a.ts\n   \n\t\nb.ts",
			[]string{"a.ts", "b.ts"},
		},
		{
			"indented tag is kept as written",
			" #not-a-tag\nc.ts",
			[]string{" #not-a-tag", "c.ts"},
		},
		{
			"no segments",
			"#EXTM3U\n#EXT-X-ENDLIST\n",
			[]string{},
		},
		{
			"empty playlist",
			"",
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSegments(tt.playlist)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSegments_Idempotent(t *testing.T) {
	playlist := "#HEADER\nseg1.ts\n\nseg2.ts\n#COMMENT\nseg3.ts"
	first := ExtractSegments(playlist)

	joined := ""
	for _, s := range first {
		joined += s + "\n"
	}
	if second := ExtractSegments(joined); !reflect.DeepEqual(first, second) {
		t.Errorf("second pass: got %q, want %q", second, first)
	}
}

func TestExtractSegmentsTool(t *testing.T) {
	f := &fakeFetcher{body: "#HEADER\nseg1.ts\n\nseg2.ts\n#COMMENT\nseg3.ts"}
	tool := &ExtractSegmentsTool{Fetcher: f}

	res := tool.Call(context.Background(), map[string]interface{}{"url": "http://example.com/live.m3u8"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}

	text := resultText(t, res)
	want := "[\n  \"seg1.ts\",\n  \"seg2.ts\",\n  \"seg3.ts\"\n]"
	if text != want {
		t.Errorf("text:\n%s\nwant:\n%s", text, want)
	}

	var segments []string
	if err := json.Unmarshal([]byte(text), &segments); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	if f.urls[0] != "http://example.com/live.m3u8" {
		t.Errorf("fetched %q", f.urls[0])
	}
}

func TestExtractSegmentsTool_EmptyPlaylist(t *testing.T) {
	tool := &ExtractSegmentsTool{Fetcher: &fakeFetcher{body: "#EXTM3U\n"}}
	res := tool.Call(context.Background(), map[string]interface{}{"url": "http://x/y.m3u8"})
	if got := resultText(t, res); got != "[]" {
		t.Errorf("text: got %q, want []", got)
	}
}

func TestExtractSegmentsTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"fetch", errors.New("connection refused"), "Failed to fetch: connection refused"},
		{"read", &ReadError{Err: errors.New("unexpected EOF")}, "Failed to read: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &ExtractSegmentsTool{Fetcher: &fakeFetcher{err: tt.err}}
			res := tool.Call(context.Background(), map[string]interface{}{"url": "http://x"})
			if !res.IsError {
				t.Error("IsError should be set")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("text: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTool(t *testing.T) {
	f := &fakeFetcher{body: "#EXTM3U\nseg.ts\n"}
	tool := &ParseTool{Fetcher: f}

	res := tool.Call(context.Background(), map[string]interface{}{"url": "http://example.com/a.m3u8"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if got, want := resultText(t, res), "Parsed m3u8 from http://example.com/a.m3u8:\n#EXTM3U\nseg.ts\n"; got != want {
		t.Errorf("text: got %q, want %q", got, want)
	}
}

func TestParseTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"fetch", errors.New("no such host"), "Failed to fetch m3u8: no such host"},
		{"read", &ReadError{Err: errors.New("reset by peer")}, "Failed to read response: reset by peer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &ParseTool{Fetcher: &fakeFetcher{err: tt.err}}
			res := tool.Call(context.Background(), map[string]interface{}{})
			if !res.IsError {
				t.Error("IsError should be set")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("text: got %q, want %q", got, tt.want)
			}
		})
	}
}
