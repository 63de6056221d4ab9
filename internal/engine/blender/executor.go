package blender

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single Blender invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs the Blender command for one frame. Stderr is captured for
// classification; when verbose it is also tee'd to os.Stderr in real time so
// long Cycles renders stay observable.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
		cmd.Stdout = os.Stdout
	} else {
		cmd.Stderr = &stderrBuf
		// Blender prints render progress on stdout; discard it silently.
		cmd.Stdout = io.Discard
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
