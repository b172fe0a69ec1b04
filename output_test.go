package tex2pdf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestOutput(t *testing.T, content string) *Output {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex2pdf-test.pdf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write output: %v", err)
	}
	return &Output{path: path, result: CompileResult{OutputPath: path, Passes: 2, AuxHashes: []string{"a", "a"}}}
}

// ---------------------------------------------------------------------------
// TestOutput_Delivery
// ---------------------------------------------------------------------------

func TestOutput_Bytes(t *testing.T) {
	t.Parallel()

	out := newTestOutput(t, "%PDF-1.5 body")
	got, err := out.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if string(got) != "%PDF-1.5 body" {
		t.Errorf("Bytes() = %q", got)
	}
}

func TestOutput_WriteTo(t *testing.T) {
	t.Parallel()

	out := newTestOutput(t, "%PDF-1.5 streamed")
	var buf bytes.Buffer
	n, err := out.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != "%PDF-1.5 streamed" {
		t.Errorf("WriteTo() wrote %d bytes: %q", n, buf.String())
	}
}

func TestOutput_MoveTo(t *testing.T) {
	t.Parallel()

	out := newTestOutput(t, "%PDF-1.5")
	dst := filepath.Join(t.TempDir(), "reports", "q3.pdf")

	if err := out.MoveTo(dst); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing: %v", err)
	}

	if err := out.Release(); err != nil {
		t.Errorf("Release() after MoveTo() error = %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("Release() touched moved file: %v", err)
	}
}

func TestOutput_ReadAfterRelease(t *testing.T) {
	t.Parallel()

	out := newTestOutput(t, "%PDF-1.5")
	if err := out.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if _, err := out.Bytes(); !errors.Is(err, ErrIO) {
		t.Errorf("Bytes() after Release() error = %v, want ErrIO", err)
	}
}

// ---------------------------------------------------------------------------
// TestOutput_Release
// ---------------------------------------------------------------------------

func TestOutput_Release(t *testing.T) {
	t.Parallel()

	t.Run("deletes the file once", func(t *testing.T) {
		t.Parallel()

		out := newTestOutput(t, "%PDF-1.5")
		if err := out.Release(); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if _, err := os.Stat(out.Path()); !os.IsNotExist(err) {
			t.Errorf("output still exists: %v", err)
		}
		if err := out.Release(); err != nil {
			t.Errorf("second Release() error = %v", err)
		}
	})

	t.Run("tolerates file deleted by caller", func(t *testing.T) {
		t.Parallel()

		out := newTestOutput(t, "%PDF-1.5")
		if err := os.Remove(out.Path()); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}
		if err := out.Release(); err != nil {
			t.Errorf("Release() error = %v, want nil", err)
		}
	})

	t.Run("removes owned directory", func(t *testing.T) {
		t.Parallel()

		dir, err := os.MkdirTemp(t.TempDir(), tempDirPattern)
		if err != nil {
			t.Fatalf("MkdirTemp() error = %v", err)
		}
		path := filepath.Join(dir, "doc.pdf")
		if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		out := &Output{path: path, ownedDir: dir}

		if err := out.Release(); err != nil {
			t.Fatalf("Release() error = %v", err)
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("owned dir still exists: %v", err)
		}
	})

	t.Run("concurrent release is safe", func(t *testing.T) {
		t.Parallel()

		out := newTestOutput(t, "%PDF-1.5")
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := out.Release(); err != nil {
					t.Errorf("Release() error = %v", err)
				}
			}()
		}
		wg.Wait()
	})
}

func TestOutput_ResultIsACopy(t *testing.T) {
	t.Parallel()

	out := newTestOutput(t, "%PDF")
	res := out.Result()
	res.AuxHashes[0] = "changed"

	if out.Result().AuxHashes[0] != "a" {
		t.Error("Result() exposes internal AuxHashes slice")
	}
}
