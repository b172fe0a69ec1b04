package tex2pdf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-tex2pdf/internal/assets"
)

// Sentinel errors for library operations.
var (
	ErrIO                 = errors.New("workspace I/O failed")
	ErrSetup              = errors.New("workspace setup failed")
	ErrCompile            = errors.New("LaTeX compilation failed")
	ErrConvergenceTimeout = errors.New("aux file did not converge")
	ErrTimeout            = errors.New("compiler invocation timed out")

	// Request validation errors.
	ErrEmptySource      = errors.New("LaTeX source cannot be empty")
	ErrCompilerNotFound = errors.New("LaTeX compiler not found")
	ErrInvalidMaxPasses = errors.New("invalid max passes")

	// Asset loading errors.
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// noDiagnostics is returned when a failed run left neither a log nor output.
const noDiagnostics = "no diagnostic information available"

// IOError reports a failed workspace file operation.
type IOError struct {
	Op   string // provision, write, move, read
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Is reports ErrIO so callers can match any IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }

// SetupError wraps a failure of the caller-supplied SetupFunc.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSetup, e.Err)
}

func (e *SetupError) Is(target error) bool { return target == ErrSetup }

func (e *SetupError) Unwrap() error { return e.Err }

// CompileError reports a compiler run that exited non-zero.
// Diagnostics holds the log file content, or the raw process output when
// no log was written.
type CompileError struct {
	Diagnostics string
	ExitCode    int
	Pass        int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v (pass %d, exit code %d): %s",
		ErrCompile, e.Pass, e.ExitCode, summarizeDiagnostics(e.Diagnostics))
}

func (e *CompileError) Unwrap() error { return ErrCompile }

// ConvergenceError reports a loop that hit the pass cap without the aux
// file stabilizing.
type ConvergenceError struct {
	Passes int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d passes", ErrConvergenceTimeout, e.Passes)
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergenceTimeout }

// TimeoutError reports a single compiler run exceeding its time budget.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v after %s", ErrTimeout, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// summarizeDiagnostics returns the first TeX error line ("! ...") or, failing
// that, the first non-empty line.
func summarizeDiagnostics(diag string) string {
	var first string
	for _, line := range strings.Split(diag, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "! ") {
			return strings.TrimPrefix(line, "! ")
		}
		if first == "" {
			first = line
		}
	}
	if first == "" {
		return noDiagnostics
	}
	return first
}
