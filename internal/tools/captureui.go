package tools

import (
	"context"
	"os"
)

// CaptureUITool launches the companion capture UI as a detached child
// process, optionally pointed at a start URL.
type CaptureUITool struct {
	Spawner Spawner
	// Command is the UI executable. Empty means the running executable.
	Command string
}

func (t *CaptureUITool) Call(_ context.Context, args map[string]interface{}) Result {
	command := t.Command
	if command == "" {
		exe, err := os.Executable()
		if err != nil {
			return ErrorResult("Failed to open capture UI: %s", err)
		}
		command = exe
	}

	var argv []string
	if u, ok := optStr(args, "url"); ok {
		argv = append(argv, "--url", u)
	}

	if err := t.Spawner.Spawn(command, argv...); err != nil {
		return ErrorResult("Failed to open capture UI: %s", err)
	}
	return TextResult("Opened m3u8 capture UI")
}
