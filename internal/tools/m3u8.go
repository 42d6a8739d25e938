package tools

import "time"

// Tool names served by this server.
const (
	NameParse           = "m3u8_parse"
	NameDownload        = "m3u8_download"
	NameProbe           = "m3u8_probe"
	NameExtractSegments = "m3u8_extract_segments"
	NameOpenCaptureUI   = "open_capture_ui"
)

// Options wires the collaborators and settings used by the m3u8 tools.
type Options struct {
	Fetcher Fetcher
	Runner  Runner
	Spawner Spawner

	FFmpegPath     string
	FFmpegTimeout  time.Duration
	DefaultOutput  string
	FFprobePath    string
	FFprobeTimeout time.Duration

	CaptureUICommand string
}

// NewM3U8Registry builds the registry of m3u8 tools in their published order.
func NewM3U8Registry(opts Options) *Registry {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = "ffprobe"
	}
	if opts.DefaultOutput == "" {
		opts.DefaultOutput = "output.mp4"
	}

	return NewRegistry(
		Tool{
			Name:        NameParse,
			Description: "Parse an m3u8 playlist URL and return its structure",
			InputSchema: urlOnlySchema,
			Handler:     &ParseTool{Fetcher: opts.Fetcher},
		},
		Tool{
			Name:        NameDownload,
			Description: "Download m3u8 stream to a file using FFmpeg",
			InputSchema: downloadSchema,
			Handler: &DownloadTool{
				Runner:        opts.Runner,
				Path:          opts.FFmpegPath,
				Timeout:       opts.FFmpegTimeout,
				DefaultOutput: opts.DefaultOutput,
			},
		},
		Tool{
			Name:        NameProbe,
			Description: "Probe m3u8 stream for information (duration, codecs, etc)",
			InputSchema: probeSchema,
			Handler: &ProbeTool{
				Runner:  opts.Runner,
				Path:    opts.FFprobePath,
				Timeout: opts.FFprobeTimeout,
			},
		},
		Tool{
			Name:        NameExtractSegments,
			Description: "Extract all segment URLs from an m3u8 playlist",
			InputSchema: urlOnlySchema,
			Handler:     &ExtractSegmentsTool{Fetcher: opts.Fetcher},
		},
		Tool{
			Name:        NameOpenCaptureUI,
			Description: "Open the m3u8 capture UI to intercept streams from websites",
			InputSchema: captureUISchema,
			Handler: &CaptureUITool{
				Spawner: opts.Spawner,
				Command: opts.CaptureUICommand,
			},
		},
	)
}
