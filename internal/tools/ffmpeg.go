package tools

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DownloadTool remuxes a stream into a local file with ffmpeg. The ADTS to
// AAC bitstream filter is needed when copying HLS audio into an MP4 container.
type DownloadTool struct {
	Runner        Runner
	Path          string
	Timeout       time.Duration
	DefaultOutput string
}

func (t *DownloadTool) Call(ctx context.Context, args map[string]interface{}) Result {
	rawURL := getStr(args, "url", "")
	output := getStr(args, "output_path", t.DefaultOutput)

	res, err := t.Runner.Run(ctx, t.Timeout, t.Path,
		"-y", "-i", rawURL, "-c", "copy", "-bsf:a", "aac_adtstoasc", output)
	if err != nil {
		return ErrorResult("Failed to run ffmpeg: %s", err)
	}
	if !res.Success() {
		return ErrorResult("FFmpeg error: %s", string(res.Stderr))
	}
	return TextResult(fmt.Sprintf("Downloaded to: %s", output))
}

// ProbeTool reports stream format and codec metadata as ffprobe JSON.
type ProbeTool struct {
	Runner  Runner
	Path    string
	Timeout time.Duration
}

func (t *ProbeTool) Call(ctx context.Context, args map[string]interface{}) Result {
	rawURL := getStr(args, "url", "")

	res, err := t.Runner.Run(ctx, t.Timeout, t.Path,
		"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", rawURL)
	if err != nil {
		return ErrorResult("Failed to probe: %s", err)
	}
	if !res.Success() {
		msg := fmt.Sprintf("ffprobe exited with status %d", res.ExitCode)
		if stderr := strings.TrimSpace(string(res.Stderr)); stderr != "" {
			msg += ": " + stderr
		}
		return ErrorResult("%s", msg)
	}
	return TextResult(string(res.Stdout))
}
