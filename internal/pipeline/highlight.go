package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the chroma style used for fenced code.
const DefaultCodeStyle = "github"

// CodeHighlighter renders source code as a LaTeX Verbatim environment.
type CodeHighlighter interface {
	Highlight(code, language string) string
}

// ChromaHighlighter colors tokens with a chroma style. Each token becomes a
// \textcolor group inside a fancyvrb Verbatim with command characters.
type ChromaHighlighter struct {
	style *chroma.Style
}

// NewChromaHighlighter creates a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	if styleName == "" {
		styleName = DefaultCodeStyle
	}
	return &ChromaHighlighter{style: styles.Get(styleName)}
}

// Highlight returns a Verbatim block. An empty or unknown language yields an
// uncolored block.
func (h *ChromaHighlighter) Highlight(code, language string) string {
	code = restoreMarkSyntax(code)

	lexer := lexers.Get(language)
	if language == "" || lexer == nil {
		return plainVerbatim(code)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainVerbatim(code)
	}

	var b strings.Builder
	b.WriteString("\\begin{Verbatim}[commandchars=\\\\\\{\\}]\n")
	for _, tok := range iterator.Tokens() {
		h.writeToken(&b, tok)
	}
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("\\end{Verbatim}\n")
	return b.String()
}

// writeToken emits one token. fancyvrb command groups cannot span lines, so
// multi-line tokens are wrapped line by line.
func (h *ChromaHighlighter) writeToken(b *strings.Builder, tok chroma.Token) {
	entry := h.style.Get(tok.Type)
	lines := strings.Split(tok.Value, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		b.WriteString(styleWrap(escapeVerbatim(line), entry))
	}
}

func styleWrap(text string, entry chroma.StyleEntry) string {
	if entry.Bold == chroma.Yes {
		text = `\textbf{` + text + `}`
	}
	if entry.Italic == chroma.Yes {
		text = `\textit{` + text + `}`
	}
	if entry.Colour.IsSet() {
		hex := strings.ToUpper(strings.TrimPrefix(entry.Colour.String(), "#"))
		text = `\textcolor[HTML]{` + hex + `}{` + text + `}`
	}
	return text
}

// plainVerbatim emits code with no command characters, so nothing is escaped.
// A literal \end{Verbatim} line inside the code would end the block early; it
// is broken with a space.
func plainVerbatim(code string) string {
	code = strings.ReplaceAll(code, `\end{Verbatim}`, `\end {Verbatim}`)

	var b strings.Builder
	b.WriteString("\\begin{Verbatim}\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("\\end{Verbatim}\n")
	return b.String()
}

var _ CodeHighlighter = (*ChromaHighlighter)(nil)
