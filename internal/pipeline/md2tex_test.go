package pipeline

// Notes:
// - Assertions check for LaTeX fragments rather than whole documents so the
//   tests survive whitespace changes in block separators.

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToLaTeX(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name     string
		markdown string
		want     []string
		exclude  []string
	}{
		{
			name:     "heading with label",
			markdown: "# Introduction",
			want:     []string{`\section{Introduction}\label{sec:introduction}`},
		},
		{
			name:     "second level heading",
			markdown: "## Results",
			want:     []string{`\subsection{Results}`},
		},
		{
			name:     "emphasis",
			markdown: "**bold** and *em*",
			want:     []string{`\textbf{bold}`, `\emph{em}`},
		},
		{
			name:     "special characters escaped",
			markdown: "a_b & 50% costs $3",
			want:     []string{`a\_b \& 50\% costs \$3`},
		},
		{
			name:     "code span",
			markdown: "use `map{k}`",
			want:     []string{`\texttt{map\{k\}}`},
		},
		{
			name:     "bullet list",
			markdown: "- one\n- two",
			want:     []string{`\begin{itemize}`, `\item one`, `\item two`, `\end{itemize}`},
		},
		{
			name:     "ordered list with start",
			markdown: "3. three\n4. four",
			want:     []string{`\begin{enumerate}`, `\setcounter{enumi}{2}`, `\item three`},
		},
		{
			name:     "strikethrough",
			markdown: "~~gone~~",
			want:     []string{`\sout{gone}`},
		},
		{
			name:     "external link",
			markdown: "[site](https://example.com/a%20b#frag)",
			want:     []string{`\href{https://example.com/a\%20b\#frag}{site}`},
		},
		{
			name:     "anchor link",
			markdown: "[back](#introduction)",
			want:     []string{`\hyperref[sec:introduction]{back}`},
		},
		{
			name:     "autolink",
			markdown: "<https://go.dev>",
			want:     []string{`\href{https://go.dev}{https://go.dev}`},
		},
		{
			name:     "table",
			markdown: "| a | b |\n|:--|--:|\n| 1 | 2 |",
			want: []string{
				`\begin{tabular}{|l|r|}`,
				`\textbf{a} & \textbf{b} \\`,
				`1 & 2 \\`,
				`\end{tabular}`,
			},
		},
		{
			name:     "task list",
			markdown: "- [x] done\n- [ ] todo",
			want:     []string{`\texttt{[x]} done`, `\texttt{[\ ]} todo`},
		},
		{
			name:     "highlight",
			markdown: "this is ==hot== news",
			want:     []string{`\colorbox{yellow}{hot}`},
		},
		{
			name:     "blockquote",
			markdown: "> quoted",
			want:     []string{`\begin{quote}`, "quoted", `\end{quote}`},
		},
		{
			name:     "thematic break",
			markdown: "a\n\n---\n\nb",
			want:     []string{`\rule{\linewidth}{0.4pt}`},
		},
		{
			name:     "fenced code with language",
			markdown: "```go\nfunc f() {}\n```",
			want:     []string{`\begin{Verbatim}[commandchars=`, `\textcolor[HTML]{`, `\end{Verbatim}`},
		},
		{
			name:     "fenced code keeps ==",
			markdown: "```\nx ==y== z\n```",
			want:     []string{"x ==y== z"},
			exclude:  []string{`\colorbox`},
		},
		{
			name:     "raw html dropped",
			markdown: "<div>x</div>\n\ntext <b>y</b>",
			exclude:  []string{"<div>", "<b>"},
		},
		{
			name:     "remote image becomes link",
			markdown: "![logo](https://example.com/logo.png)",
			want:     []string{`\href{https://example.com/logo.png}{logo}`},
			exclude:  []string{`\includegraphics`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToLaTeX(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("ToLaTeX() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("ToLaTeX(%q) missing %q\ngot:\n%s", tt.markdown, want, got)
				}
			}
			for _, bad := range tt.exclude {
				if strings.Contains(got, bad) {
					t.Errorf("ToLaTeX(%q) should not contain %q\ngot:\n%s", tt.markdown, bad, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ImageSourceDir(t *testing.T) {
	t.Parallel()

	sourceDir := "/docs"
	if runtime.GOOS == "windows" {
		sourceDir = `C:\docs`
	}
	conv := NewGoldmarkConverter(WithSourceDir(sourceDir))

	got, err := conv.ToLaTeX(context.Background(), "![chart](img/chart.png)")
	if err != nil {
		t.Fatalf("ToLaTeX() error = %v", err)
	}

	want := `\includegraphics[width=0.8\linewidth]{` + filepath.ToSlash(filepath.Join(sourceDir, "img", "chart.png")) + "}"
	if !strings.Contains(got, want) {
		t.Errorf("ToLaTeX() = %q, want containing %q", got, want)
	}
}

func TestGoldmarkConverter_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToLaTeX(ctx, "# Title")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToLaTeX() error = %v, want context.Canceled", err)
	}
}
