package tex2pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/alnah/go-tex2pdf/internal/process"
)

// nonStopFlag suppresses interactive prompts on compiler errors.
const nonStopFlag = "-interaction=nonstopmode"

// runResult is the raw outcome of a finished process.
type runResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// commandRunner abstracts process execution to enable testing without a
// real compiler. A non-zero exit is reported in runResult, not as an error.
type commandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (runResult, error)
}

// execRunner implements commandRunner using os/exec. The child runs in its
// own process group, killed as a whole when ctx is done.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) (runResult, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- compiler path is caller configuration
	cmd.Dir = dir
	process.SetProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return runResult{}, fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-done
		return runResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: -1}, ctx.Err()
	case err = <-done:
	}

	res := runResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("waiting for %s: %w", name, err)
	}
	return res, nil
}

// Invocation records one compiler run.
type Invocation struct {
	Args     []string
	Dir      string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// compilerInvoker runs the compiler once per call with a per-run timeout.
type compilerInvoker struct {
	runner  commandRunner
	timeout time.Duration
}

// buildArgs returns the argument vector after the binary name:
// [-interaction=nonstopmode] -output-directory <dir> <source>.
func buildArgs(ws *Workspace, nonStop bool) []string {
	args := make([]string, 0, 4)
	if nonStop {
		args = append(args, nonStopFlag)
	}
	return append(args, "-output-directory", ws.WorkDir, ws.SourcePath)
}

// invoke runs the compiler in the workspace. A non-zero exit is returned in
// the Invocation; errors cover start failures, timeouts and cancellation.
func (ci *compilerInvoker) invoke(ctx context.Context, ws *Workspace, compilerPath string, nonStop bool) (*Invocation, error) {
	args := buildArgs(ws, nonStop)

	runCtx, cancel := context.WithTimeout(ctx, ci.timeout)
	defer cancel()

	start := time.Now()
	res, err := ci.runner.Run(runCtx, ws.WorkDir, compilerPath, args...)
	inv := &Invocation{
		Args:     append([]string{compilerPath}, args...),
		Dir:      ws.WorkDir,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Duration: time.Since(start),
	}
	if err == nil {
		return inv, nil
	}

	switch {
	case ctx.Err() != nil:
		return inv, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return inv, &TimeoutError{Timeout: ci.timeout}
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return inv, fmt.Errorf("%w: %s", ErrCompilerNotFound, compilerPath)
	default:
		return inv, err
	}
}
