package pipeline

import (
	"strings"
	"testing"
)

func TestChromaHighlighter(t *testing.T) {
	t.Parallel()

	h := NewChromaHighlighter("")

	t.Run("known language is colored", func(t *testing.T) {
		t.Parallel()

		got := h.Highlight("func main() {\n\tprintln(\"hi\")\n}\n", "go")

		if !strings.HasPrefix(got, "\\begin{Verbatim}[commandchars=\\\\\\{\\}]\n") {
			t.Errorf("missing Verbatim with commandchars, got %q", got)
		}
		if !strings.Contains(got, `\textcolor[HTML]{`) {
			t.Errorf("expected colored tokens, got %q", got)
		}
		if !strings.Contains(got, `\char123{}`) {
			t.Errorf("expected escaped brace, got %q", got)
		}
		if !strings.HasSuffix(got, "\\end{Verbatim}\n") {
			t.Errorf("missing end of Verbatim, got %q", got)
		}
	})

	t.Run("command groups never span lines", func(t *testing.T) {
		t.Parallel()

		got := h.Highlight("/* one\ntwo */\n", "c")
		for _, line := range strings.Split(got, "\n") {
			if strings.Count(line, "{") != strings.Count(line, "}") {
				t.Errorf("unbalanced braces on line %q", line)
			}
		}
	})

	t.Run("no language is plain", func(t *testing.T) {
		t.Parallel()

		got := h.Highlight(`\section{raw}`, "")
		want := "\\begin{Verbatim}\n\\section{raw}\n\\end{Verbatim}\n"
		if got != want {
			t.Errorf("Highlight() = %q, want %q", got, want)
		}
	})

	t.Run("unknown language is plain", func(t *testing.T) {
		t.Parallel()

		got := h.Highlight("x", "no-such-language-xyz")
		if strings.Contains(got, "commandchars") {
			t.Errorf("expected plain Verbatim, got %q", got)
		}
	})

	t.Run("plain block cannot be closed early", func(t *testing.T) {
		t.Parallel()

		got := h.Highlight("a\n\\end{Verbatim}\nb\n", "")
		if strings.Count(got, `\end{Verbatim}`) != 1 {
			t.Errorf("inner \\end{Verbatim} not neutralized: %q", got)
		}
	})
}
