package tex2pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-tex2pdf/internal/assets"
	"github.com/alnah/go-tex2pdf/internal/fileutil"
)

// setupFilePerm is applied to files injected into a workspace.
const setupFilePerm = 0o644

// StyleSetup returns a SetupFunc writing the named LaTeX styles into the
// workspace as <name>.sty, so documents can \usepackage{<name>}.
// Styles are loaded when the setup runs, not when StyleSetup is called.
func StyleSetup(loader AssetLoader, names ...string) SetupFunc {
	return func(workDir, _ string) error {
		for _, name := range names {
			content, err := loader.LoadStyle(name)
			if err != nil {
				return err
			}
			dst := filepath.Join(workDir, name+assets.StyleExt)
			if err := os.WriteFile(dst, []byte(content), setupFilePerm); err != nil {
				return fmt.Errorf("writing style %q: %w", name, err)
			}
		}
		return nil
	}
}

// CopyFilesSetup returns a SetupFunc copying files (images, bibliographies)
// into the workspace under their base names.
func CopyFilesSetup(paths ...string) SetupFunc {
	return func(workDir, _ string) error {
		for _, src := range paths {
			dst := filepath.Join(workDir, filepath.Base(src))
			if err := fileutil.CopyFile(src, dst, setupFilePerm); err != nil {
				return err
			}
		}
		return nil
	}
}

// ChainSetup runs each SetupFunc in order, stopping at the first error.
// Nil entries are skipped.
func ChainSetup(fns ...SetupFunc) SetupFunc {
	return func(workDir, baseName string) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(workDir, baseName); err != nil {
				return err
			}
		}
		return nil
	}
}
