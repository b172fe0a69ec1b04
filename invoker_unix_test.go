//go:build !windows

package tex2pdf

// Notes:
// - fakeCompilerScript writes a POSIX shell script standing in for pdflatex.
//   It follows the same contract: the last argument is the source path and
//   artifacts are written next to it.
// - Every invocation appends a line to a counter file outside the workspace.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fakeCompilerTemplate = `#!/bin/sh
for arg; do src="$arg"; done
echo pass >> %q
case "$(cat "$src")" in
  *FAIL*)
    printf '! Undefined control sequence.\nl.1 FAIL\n' > "$src.log"
    printf '%%%%PDF-partial' > "$src.pdf"
    exit 1 ;;
  *NOLOG*)
    echo "fatal: cannot open font" >&2
    exit 3 ;;
  *HANG*)
    sleep 30 ;;
esac
if [ "$1" != "-interaction=nonstopmode" ]; then
  echo "missing nonstop flag" >&2
  exit 9
fi
printf '\\relax\n' > "$src.aux"
printf '%%%%PDF-1.5\n' > "$src.pdf"
`

// fakeCompilerScript returns the script path and a func counting its runs.
func fakeCompilerScript(t *testing.T) (string, func() int) {
	t.Helper()
	dir := t.TempDir()
	counter := filepath.Join(dir, "calls")
	script := filepath.Join(dir, "fakelatex")
	if err := os.WriteFile(script, []byte(fmt.Sprintf(fakeCompilerTemplate, counter)), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return script, func() int {
		data, err := os.ReadFile(counter)
		if err != nil {
			return 0
		}
		return strings.Count(string(data), "pass")
	}
}

// ---------------------------------------------------------------------------
// TestExecRunner_EndToEnd
// ---------------------------------------------------------------------------

func TestExecRunner_ConvergesOnStableAux(t *testing.T) {
	t.Parallel()

	script, calls := fakeCompilerScript(t)
	workDir := t.TempDir()
	c := NewCompiler(WithWorkDir(workDir))

	out, err := c.Compile(context.Background(), CompileRequest{
		Source:             trivialDoc,
		CompilerPath:       script,
		NonStopMode:        true,
		WaitForConvergence: true,
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	defer out.Release()

	if calls() != 2 {
		t.Errorf("compiler runs = %d, want 2", calls())
	}
	data, err := out.Bytes()
	if err != nil || !strings.HasPrefix(string(data), "%PDF-1.5") {
		t.Errorf("Bytes() = %q, %v", data, err)
	}
	if got := dirEntries(t, workDir); len(got) != 1 {
		t.Errorf("workspace entries = %v, want only the PDF", got)
	}
}

func TestExecRunner_CompileErrorCarriesLog(t *testing.T) {
	t.Parallel()

	script, calls := fakeCompilerScript(t)
	workDir := t.TempDir()
	c := NewCompiler(WithWorkDir(workDir))

	_, err := c.Compile(context.Background(), CompileRequest{
		Source:             "FAIL",
		CompilerPath:       script,
		NonStopMode:        true,
		WaitForConvergence: true,
	})

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error = %v, want *CompileError", err)
	}
	if compileErr.Diagnostics != "! Undefined control sequence.\nl.1 FAIL\n" {
		t.Errorf("Diagnostics = %q", compileErr.Diagnostics)
	}
	if !strings.Contains(err.Error(), "Undefined control sequence.") {
		t.Errorf("Error() = %q, want summary", err.Error())
	}
	if calls() != 1 {
		t.Errorf("compiler runs = %d, want 1", calls())
	}
	if got := dirEntries(t, workDir); len(got) != 0 {
		t.Errorf("workspace entries = %v, want none", got)
	}
}

func TestExecRunner_ExitCodeAndStderr(t *testing.T) {
	t.Parallel()

	script, _ := fakeCompilerScript(t)
	c := NewCompiler(WithWorkDir(t.TempDir()))

	_, err := c.Compile(context.Background(), CompileRequest{
		Source:       "NOLOG",
		CompilerPath: script,
		NonStopMode:  true,
	})

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error = %v, want *CompileError", err)
	}
	if compileErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", compileErr.ExitCode)
	}
	if compileErr.Diagnostics != "fatal: cannot open font\n" {
		t.Errorf("Diagnostics = %q", compileErr.Diagnostics)
	}
}

func TestExecRunner_TimeoutKillsCompiler(t *testing.T) {
	t.Parallel()

	script, _ := fakeCompilerScript(t)
	c := NewCompiler(WithWorkDir(t.TempDir()), WithTimeout(200*time.Millisecond))

	start := time.Now()
	_, err := c.Compile(context.Background(), CompileRequest{
		Source:       "HANG",
		CompilerPath: script,
		NonStopMode:  true,
	})

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Compile() took %v, compiler was not killed", elapsed)
	}
}

func TestExecRunner_CompilerNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "name not on PATH", path: "tex2pdf-no-such-compiler"},
		{name: "missing absolute path", path: filepath.Join(t.TempDir(), "pdflatex")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewCompiler(WithWorkDir(t.TempDir()))
			_, err := c.Compile(context.Background(), CompileRequest{
				Source:       trivialDoc,
				CompilerPath: tt.path,
			})
			if !errors.Is(err, ErrCompilerNotFound) {
				t.Errorf("error = %v, want ErrCompilerNotFound", err)
			}
		})
	}
}
