package tools

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Success(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), 0, "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success() {
		t.Errorf("exit code: got %d", res.ExitCode)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" {
		t.Errorf("stdout: got %q", res.Stdout)
	}
	if strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Errorf("stderr: got %q", res.Stderr)
	}
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), 0, "sh", "-c", "echo failed >&2; exit 3")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code: got %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(string(res.Stderr)) != "failed" {
		t.Errorf("stderr: got %q", res.Stderr)
	}
}

func TestExecRunner_NotFound(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), 0, "definitely-not-a-real-binary-m3u8")
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	requireShell(t)

	_, err := ExecRunner{}.Run(context.Background(), 50*time.Millisecond, "sh", "-c", "exec sleep 5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error: got %v", err)
	}
}

func TestProcessSpawner(t *testing.T) {
	requireShell(t)

	if err := (ProcessSpawner{}).Spawn("sh", "-c", "exit 0"); err != nil {
		t.Errorf("Spawn: %v", err)
	}
	if err := (ProcessSpawner{}).Spawn("definitely-not-a-real-binary-m3u8"); err == nil {
		t.Error("expected error for missing executable")
	}
}
