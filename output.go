package tex2pdf

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/alnah/go-tex2pdf/internal/fileutil"
)

// outputFilePerm is applied to delivered PDFs.
const outputFilePerm = 0o644

// Output is the compiled PDF, owned by the caller until Release.
// Deliver it with WriteTo, Bytes or MoveTo, then call Release to delete
// whatever is left on disk. Release is safe to call more than once.
type Output struct {
	path       string
	result     CompileResult
	ownedDir   string // temporary directory removed on Release, if any
	releaseErr error
	once       sync.Once
}

// Path returns the location of the PDF inside the workspace.
func (o *Output) Path() string { return o.path }

// Result returns a copy of the compile summary.
func (o *Output) Result() CompileResult {
	r := o.result
	r.AuxHashes = append([]string(nil), o.result.AuxHashes...)
	return r
}

// Bytes reads the whole PDF into memory.
func (o *Output) Bytes() ([]byte, error) {
	data, err := os.ReadFile(o.path) // #nosec G304 -- workspace path
	if err != nil {
		return nil, &IOError{Op: "read", Path: o.path, Err: err}
	}
	return data, nil
}

// WriteTo streams the PDF to w.
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	f, err := os.Open(o.path) // #nosec G304 -- workspace path
	if err != nil {
		return 0, &IOError{Op: "read", Path: o.path, Err: err}
	}
	defer f.Close()
	return io.Copy(w, f)
}

// MoveTo moves the PDF to dst, creating parent directories as needed.
// After a successful move Release leaves dst untouched.
func (o *Output) MoveTo(dst string) error {
	if err := fileutil.MoveFile(o.path, dst, outputFilePerm); err != nil {
		return &IOError{Op: "move", Path: dst, Err: err}
	}
	return nil
}

// Release deletes the PDF if it is still in the workspace, and the
// workspace directory when the compiler created it. A file already moved or
// deleted by the caller is not an error.
func (o *Output) Release() error {
	o.once.Do(func() {
		var errs []error
		if err := fileutil.RemoveIfExists(o.path); err != nil {
			errs = append(errs, &IOError{Op: "remove", Path: o.path, Err: err})
		}
		if o.ownedDir != "" {
			if err := os.RemoveAll(o.ownedDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, &IOError{Op: "remove", Path: o.ownedDir, Err: err})
			}
		}
		o.releaseErr = errors.Join(errs...)
	})
	return o.releaseErr
}
