package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner runs external processes.
type Runner interface {
	// Output runs name with args and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream starts name with args and returns its stdout.
	// wait must be called after the stream is drained to reap the process.
	Stream(ctx context.Context, name string, args ...string) (stdout io.ReadCloser, wait func() error, err error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// Output runs the command and returns stdout.
// A non-zero exit includes the command's stderr in the error.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- adb path comes from user config
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return out, fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
			}
		}
		return out, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}

// Stream starts the command with stdout piped back to the caller.
func (ExecRunner) Stream(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- adb path comes from user config
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("piping %s output: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting %s: %w", name, err)
	}
	return stdout, cmd.Wait, nil
}
