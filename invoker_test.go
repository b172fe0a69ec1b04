package tex2pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestBuildArgs
// ---------------------------------------------------------------------------

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	ws := &Workspace{WorkDir: "/tmp/w", SourcePath: "/tmp/w/tex2pdf-abc"}

	tests := []struct {
		name    string
		nonStop bool
		want    []string
	}{
		{
			name:    "nonstop",
			nonStop: true,
			want:    []string{"-interaction=nonstopmode", "-output-directory", "/tmp/w", "/tmp/w/tex2pdf-abc"},
		},
		{
			name:    "interactive",
			nonStop: false,
			want:    []string{"-output-directory", "/tmp/w", "/tmp/w/tex2pdf-abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := buildArgs(ws, tt.nonStop); !slices.Equal(got, tt.want) {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestInvoke_ErrorMapping
// ---------------------------------------------------------------------------

type stubRunner struct {
	res runResult
	err error
}

func (s stubRunner) Run(context.Context, string, string, ...string) (runResult, error) {
	return s.res, s.err
}

func TestInvoke_ErrorMapping(t *testing.T) {
	t.Parallel()

	ws := &Workspace{WorkDir: t.TempDir(), SourcePath: "doc"}
	notFound := fmt.Errorf("starting pdflatex: %w", &exec.Error{Name: "pdflatex", Err: exec.ErrNotFound})
	forkErr := errors.New("fork failed")

	tests := []struct {
		name    string
		runner  commandRunner
		wantErr error
	}{
		{name: "binary not on PATH", runner: stubRunner{err: notFound}, wantErr: ErrCompilerNotFound},
		{name: "other start failure passes through", runner: stubRunner{err: forkErr}, wantErr: forkErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ci := &compilerInvoker{runner: tt.runner, timeout: time.Minute}
			_, err := ci.invoke(context.Background(), ws, "pdflatex", true)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("invoke() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvoke_NonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	ws := &Workspace{WorkDir: t.TempDir(), SourcePath: "doc"}
	ci := &compilerInvoker{
		runner:  stubRunner{res: runResult{Stderr: []byte("fatal"), ExitCode: 1}},
		timeout: time.Minute,
	}

	inv, err := ci.invoke(context.Background(), ws, "lualatex", false)
	if err != nil {
		t.Fatalf("invoke() error = %v", err)
	}
	if inv.ExitCode != 1 || string(inv.Stderr) != "fatal" {
		t.Errorf("Invocation = %+v", inv)
	}
	if inv.Args[0] != "lualatex" || inv.Dir != ws.WorkDir {
		t.Errorf("Args, Dir = %v, %q", inv.Args, inv.Dir)
	}
}
