package tex2pdf

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestTypedErrors
// ---------------------------------------------------------------------------

func TestTypedErrors_MatchSentinels(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")

	tests := []struct {
		name     string
		err      error
		sentinel error
		wantMsg  string
	}{
		{
			name:     "io error",
			err:      &IOError{Op: "write", Path: "/tmp/doc", Err: cause},
			sentinel: ErrIO,
			wantMsg:  "write /tmp/doc: disk full",
		},
		{
			name:     "setup error",
			err:      &SetupError{Err: cause},
			sentinel: ErrSetup,
			wantMsg:  "workspace setup failed: disk full",
		},
		{
			name:     "compile error",
			err:      &CompileError{Diagnostics: "! Missing $ inserted.\n", ExitCode: 1, Pass: 2},
			sentinel: ErrCompile,
			wantMsg:  "(pass 2, exit code 1): Missing $ inserted.",
		},
		{
			name:     "convergence error",
			err:      &ConvergenceError{Passes: 10},
			sentinel: ErrConvergenceTimeout,
			wantMsg:  "after 10 passes",
		},
		{
			name:     "timeout error",
			err:      &TimeoutError{Timeout: 2 * time.Minute},
			sentinel: ErrTimeout,
			wantMsg:  "after 2m0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if !strings.Contains(tt.err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want to contain %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestIOError_UnwrapsCause(t *testing.T) {
	t.Parallel()

	err := &IOError{Op: "provision", Path: "/x", Err: fs.ErrPermission}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("IOError does not unwrap to its cause")
	}
	if errors.Is(err, ErrSetup) {
		t.Error("IOError must not match ErrSetup")
	}
}

// ---------------------------------------------------------------------------
// TestSummarizeDiagnostics
// ---------------------------------------------------------------------------

func TestSummarizeDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		diag string
		want string
	}{
		{
			name: "first tex error line",
			diag: "This is pdfTeX, Version 3.14\n(./doc.tex\n! Undefined control sequence.\nl.5 \\foo\n! Emergency stop.",
			want: "Undefined control sequence.",
		},
		{
			name: "first non-empty line without marker",
			diag: "\n\npdflatex: command failed\nmore",
			want: "pdflatex: command failed",
		},
		{
			name: "blank",
			diag: " \n\t\n",
			want: noDiagnostics,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := summarizeDiagnostics(tt.diag); got != tt.want {
				t.Errorf("summarizeDiagnostics() = %q, want %q", got, tt.want)
			}
		})
	}
}
