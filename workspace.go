package tex2pdf

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/alnah/go-tex2pdf/internal/fileutil"
)

// Artifact extensions written by the compiler next to the source file.
const (
	auxExt    = ".aux"
	logExt    = ".log"
	outputExt = ".pdf"
)

// baseNamePrefix marks files created by this package in shared directories.
const baseNamePrefix = "tex2pdf-"

// sourceFilePerm lets the compiler and setup callbacks read and write the source.
const sourceFilePerm = 0o644

// Workspace is the set of paths owned by a single compile.
type Workspace struct {
	BaseName   string
	WorkDir    string
	SourcePath string
	AuxPath    string
	LogPath    string
	OutputPath string
}

// newBaseName returns a collision-resistant stem: 122 random bits from a
// version 4 UUID, hex encoded without dashes.
func newBaseName() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return baseNamePrefix + hex.EncodeToString(id[:]), nil
}

// provisionWorkspace allocates fresh paths in dir and creates an empty
// placeholder at the source path.
func provisionWorkspace(dir string) (*Workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, &IOError{Op: "provision", Path: dir, Err: err}
	}

	name, err := newBaseName()
	if err != nil {
		return nil, &IOError{Op: "provision", Path: absDir, Err: err}
	}

	source := filepath.Join(absDir, name)
	f, err := os.OpenFile(source, os.O_CREATE|os.O_EXCL|os.O_WRONLY, sourceFilePerm) // #nosec G304 -- path built from random name
	if err != nil {
		return nil, &IOError{Op: "provision", Path: source, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &IOError{Op: "provision", Path: source, Err: err}
	}

	return &Workspace{
		BaseName:   name,
		WorkDir:    absDir,
		SourcePath: source,
		AuxPath:    source + auxExt,
		LogPath:    source + logExt,
		OutputPath: source + outputExt,
	}, nil
}

// materialize overwrites the placeholder with text, byte for byte.
func (w *Workspace) materialize(text string) error {
	if err := os.WriteFile(w.SourcePath, []byte(text), sourceFilePerm); err != nil {
		return &IOError{Op: "write", Path: w.SourcePath, Err: err}
	}
	return nil
}

// cleanupIntermediates removes source, aux and log files. Every removal is
// attempted; failures are logged, never returned.
func (w *Workspace) cleanupIntermediates(logger *slog.Logger) {
	for _, path := range []string{w.SourcePath, w.AuxPath, w.LogPath} {
		if err := fileutil.RemoveIfExists(path); err != nil {
			logger.Warn("removing intermediate file", "path", path, "error", err)
		}
	}
}

// removeOutput deletes a partial or delivered PDF.
func (w *Workspace) removeOutput() error {
	if err := fileutil.RemoveIfExists(w.OutputPath); err != nil {
		return &IOError{Op: "remove", Path: w.OutputPath, Err: err}
	}
	return nil
}

// errNoOutput is wrapped when the compiler exits 0 but wrote no PDF.
var errNoOutput = errors.New("compiler produced no output file")

// checkOutput verifies the PDF exists after a successful loop.
func (w *Workspace) checkOutput() error {
	if !fileutil.FileExists(w.OutputPath) {
		return &IOError{Op: "read", Path: w.OutputPath, Err: errNoOutput}
	}
	return nil
}
