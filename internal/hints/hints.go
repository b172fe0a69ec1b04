// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os/exec"
	"regexp"
	"strings"

	"github.com/alnah/go-tex2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// LookPath is swapped in tests.
var LookPath = exec.LookPath

// knownEngines are suggested when the configured compiler is missing.
var knownEngines = []string{"pdflatex", "xelatex", "lualatex"}

// ForCompilerNotFound returns hints for a missing LaTeX compiler binary.
// It suggests installed alternatives, or a TeX distribution when none is found.
func ForCompilerNotFound(compiler string) string {
	var hints []string

	var installed []string
	for _, engine := range knownEngines {
		if engine == compiler {
			continue
		}
		if _, err := LookPath(engine); err == nil {
			installed = append(installed, engine)
		}
	}

	if len(installed) > 0 {
		hints = append(hints, "found "+strings.Join(installed, ", ")+"; use --compiler or TEX2PDF_COMPILER")
	} else if IsInContainer() {
		hints = append(hints, "install texlive-latex-base (Debian) or texlive (Alpine) in the image")
	} else {
		hints = append(hints, "install a TeX distribution (TeX Live, MiKTeX, MacTeX)")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConvergence returns a hint for documents whose aux file never stabilizes.
func ForConvergence() string {
	return format("raise --max-passes, or use --single-pass if cross-references do not matter")
}

var missingFileRe = regexp.MustCompile("File `([^']+)\\.(sty|cls)' not found")

// ForCompileError inspects compiler diagnostics for well-known causes.
func ForCompileError(diagnostics string) string {
	if m := missingFileRe.FindStringSubmatch(diagnostics); m != nil {
		return format("missing LaTeX package " + m[1] + "." + m[2] + "; install it (e.g. tlmgr install " + m[1] + ")")
	}
	if strings.Contains(diagnostics, "Emergency stop") && strings.Contains(diagnostics, "*** (job aborted, no legal \\end found)") {
		return format("document has no \\end{document}")
	}
	return ""
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-tex2pdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-tex2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound returns hints listing the templates that do exist.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
