package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseTool returns the raw playlist annotated with its source URL.
type ParseTool struct {
	Fetcher Fetcher
}

func (t *ParseTool) Call(ctx context.Context, args map[string]interface{}) Result {
	rawURL := getStr(args, "url", "")

	body, err := t.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if IsReadError(err) {
			return ErrorResult("Failed to read response: %s", err)
		}
		return ErrorResult("Failed to fetch m3u8: %s", err)
	}
	return TextResult(fmt.Sprintf("Parsed m3u8 from %s:\n%s", rawURL, body))
}

// ExtractSegmentsTool lists the segment references of a playlist.
type ExtractSegmentsTool struct {
	Fetcher Fetcher
}

func (t *ExtractSegmentsTool) Call(ctx context.Context, args map[string]interface{}) Result {
	rawURL := getStr(args, "url", "")

	body, err := t.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if IsReadError(err) {
			return ErrorResult("Failed to read: %s", err)
		}
		return ErrorResult("Failed to fetch: %s", err)
	}

	data, err := json.MarshalIndent(ExtractSegments(body), "", "  ")
	if err != nil {
		return ErrorResult("Failed to encode segments: %s", err)
	}
	return TextResult(string(data))
}

// ExtractSegments returns every line of a playlist that is neither blank nor
// a tag or comment (starting with '#'), in playlist order. Lines are returned
// as written, apart from their line terminator.
func ExtractSegments(playlist string) []string {
	segments := []string{}
	for _, line := range strings.Split(playlist, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}
