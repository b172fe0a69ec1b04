package hints

// Notes:
// - ForCompilerNotFound tests cannot use t.Parallel() because they replace the
//   package-level IsInContainer and LookPath variables.

import (
	"errors"
	"strings"
	"testing"
)

func stubEnv(t *testing.T, inContainer bool, installed ...string) {
	t.Helper()

	origContainer, origLook := IsInContainer, LookPath
	t.Cleanup(func() {
		IsInContainer = origContainer
		LookPath = origLook
	})

	IsInContainer = func() bool { return inContainer }
	LookPath = func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestForCompilerNotFound_SuggestsInstalledEngine(t *testing.T) {
	stubEnv(t, false, "xelatex")

	hint := ForCompilerNotFound("pdflatex")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("expected hint prefix, got %q", hint)
	}
	if !strings.Contains(hint, "xelatex") {
		t.Errorf("expected xelatex suggestion, got %q", hint)
	}
	if strings.Contains(hint, "lualatex") {
		t.Errorf("unexpected lualatex suggestion, got %q", hint)
	}
}

func TestForCompilerNotFound_SkipsRequestedEngine(t *testing.T) {
	stubEnv(t, false, "pdflatex")

	hint := ForCompilerNotFound("pdflatex")

	if strings.Contains(hint, "found pdflatex") {
		t.Errorf("should not suggest the missing compiler itself, got %q", hint)
	}
	if !strings.Contains(hint, "TeX distribution") {
		t.Errorf("expected distribution hint, got %q", hint)
	}
}

func TestForCompilerNotFound_InContainer(t *testing.T) {
	stubEnv(t, true)

	hint := ForCompilerNotFound("pdflatex")

	if !strings.Contains(hint, "texlive") {
		t.Errorf("expected texlive install hint in container, got %q", hint)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "timeout", got: ForTimeout(), want: "--timeout"},
		{name: "convergence", got: ForConvergence(), want: "--max-passes"},
		{name: "output directory", got: ForOutputDirectory(), want: "writable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("missing hint prefix: %q", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint %q does not mention %q", tt.got, tt.want)
			}
		})
	}
}

func TestForCompileError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		diagnostics string
		want        string
	}{
		{
			name:        "missing style file",
			diagnostics: "! LaTeX Error: File `fancyhdr.sty' not found.",
			want:        "tlmgr install fancyhdr",
		},
		{
			name:        "missing class file",
			diagnostics: "! LaTeX Error: File `memoir.cls' not found.",
			want:        "memoir.cls",
		},
		{
			name:        "missing end document",
			diagnostics: "! Emergency stop.\n*** (job aborted, no legal \\end found)",
			want:        "\\end{document}",
		},
		{
			name:        "unknown error has no hint",
			diagnostics: "! Undefined control sequence.",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForCompileError(tt.diagnostics)
			if tt.want == "" {
				if got != "" {
					t.Errorf("ForCompileError() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ForCompileError() = %q, want containing %q", got, tt.want)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"work.yaml", "/home/u/.config/go-tex2pdf/work.yaml"})
	if !strings.Contains(hint, "--config") {
		t.Errorf("expected --config suggestion, got %q", hint)
	}
	if !strings.Contains(hint, "/home/u/.config/go-tex2pdf/work.yaml") {
		t.Errorf("expected user config path suggestion, got %q", hint)
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	if got := ForTemplateNotFound(nil); got != "" {
		t.Errorf("ForTemplateNotFound(nil) = %q, want empty", got)
	}
	got := ForTemplateNotFound([]string{"article", "letter"})
	if !strings.Contains(got, "article, letter") {
		t.Errorf("ForTemplateNotFound() = %q", got)
	}
}
