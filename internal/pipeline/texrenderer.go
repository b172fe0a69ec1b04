package pipeline

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// texRenderer renders goldmark AST nodes as LaTeX.
type texRenderer struct {
	sourceDir   string
	highlighter CodeHighlighter
}

var sectionCommands = [...]string{
	1: `\section`,
	2: `\subsection`,
	3: `\subsubsection`,
	4: `\paragraph`,
	5: `\subparagraph`,
	6: `\subparagraph`,
}

func (r *texRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	// blocks
	reg.Register(ast.KindDocument, r.renderNoop)
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindTextBlock, r.renderTextBlock)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
	reg.Register(ast.KindHTMLBlock, r.renderSkip)

	// inlines
	reg.Register(ast.KindText, r.renderText)
	reg.Register(ast.KindString, r.renderString)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindRawHTML, r.renderSkip)

	// GFM
	reg.Register(east.KindStrikethrough, r.renderStrikethrough)
	reg.Register(east.KindTaskCheckBox, r.renderTaskCheckBox)
	reg.Register(east.KindTable, r.renderTable)
	reg.Register(east.KindTableHeader, r.renderTableRow)
	reg.Register(east.KindTableRow, r.renderTableRow)
	reg.Register(east.KindTableCell, r.renderTableCell)
}

func (r *texRenderer) renderNoop(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkContinue, nil
}

// Raw HTML has no LaTeX meaning and is dropped.
func (r *texRenderer) renderSkip(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *texRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	level := min(max(n.Level, 1), 6)
	if entering {
		_, _ = w.WriteString(sectionCommands[level] + "{")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("}")
	if id, ok := n.AttributeString("id"); ok {
		if b, ok := id.([]byte); ok && len(b) > 0 {
			_, _ = w.WriteString(`\label{sec:` + string(b) + "}")
		}
	}
	_, _ = w.WriteString("\n\n")
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderParagraph(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderTextBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering && n.NextSibling() != nil {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderBlockquote(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\\begin{quote}\n")
	} else {
		_, _ = w.WriteString("\\end{quote}\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderCodeBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	var language string
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		language = string(fenced.Language(source))
	}

	_, _ = w.WriteString(r.highlighter.Highlight(code.String(), language))
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *texRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	env := "itemize"
	if n.IsOrdered() {
		env = "enumerate"
	}
	if !entering {
		_, _ = w.WriteString("\\end{" + env + "}\n\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("\\begin{" + env + "}\n")
	if n.IsOrdered() && n.Start > 1 {
		if counter := enumCounter(n); counter != "" {
			_, _ = w.WriteString(`\setcounter{` + counter + "}{" + strconv.Itoa(n.Start-1) + "}\n")
		}
	}
	return ast.WalkContinue, nil
}

// enumCounter names the LaTeX counter for an ordered list at its nesting
// depth. LaTeX only defines four levels.
func enumCounter(n *ast.List) string {
	depth := 1
	for p := n.Parent(); p != nil; p = p.Parent() {
		if l, ok := p.(*ast.List); ok && l.IsOrdered() {
			depth++
		}
	}
	names := [...]string{"", "enumi", "enumii", "enumiii", "enumiv"}
	if depth >= len(names) {
		return ""
	}
	return names[depth]
}

func (r *texRenderer) renderListItem(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`\item `)
		return ast.WalkContinue, nil
	}
	// Paragraphs, lists and code blocks already end with a newline.
	if last := n.LastChild(); last == nil || last.Kind() == ast.KindTextBlock {
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderThematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("\\par\\noindent\\rule{\\linewidth}{0.4pt}\\par\n\n")
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	_, _ = w.WriteString(Escape(string(n.Segment.Value(source))))
	switch {
	case n.HardLineBreak():
		_, _ = w.WriteString("\\\\\n")
	case n.SoftLineBreak():
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderString(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(Escape(string(node.(*ast.String).Value)))
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderEmphasis(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	if !entering {
		_ = w.WriteByte('}')
		return ast.WalkContinue, nil
	}
	if n.Level >= 2 {
		_, _ = w.WriteString(`\textbf{`)
	} else {
		_, _ = w.WriteString(`\emph{`)
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderCodeSpan(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var text strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			text.Write(t.Segment.Value(source))
		case *ast.String:
			text.Write(t.Value)
		}
	}
	_, _ = w.WriteString(`\texttt{` + Escape(restoreMarkSyntax(text.String())) + "}")
	return ast.WalkSkipChildren, nil
}

func (r *texRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_ = w.WriteByte('}')
		return ast.WalkContinue, nil
	}
	dest := string(n.Destination)
	if anchor, ok := strings.CutPrefix(dest, "#"); ok && anchor != "" {
		_, _ = w.WriteString(`\hyperref[sec:` + escapeURL(anchor) + "]{")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`\href{` + escapeURL(dest) + "}{")
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	label := string(n.Label(source))
	url := string(n.URL(source))
	if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
		url = "mailto:" + url
	}
	_, _ = w.WriteString(`\href{` + escapeURL(url) + "}{" + Escape(label) + "}")
	return ast.WalkSkipChildren, nil
}

func (r *texRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	dest := string(n.Destination)

	if isRemote(dest) {
		alt := plainText(n, source)
		if alt == "" {
			alt = dest
		}
		_, _ = w.WriteString(`\href{` + escapeURL(dest) + "}{" + Escape(alt) + "}")
		return ast.WalkSkipChildren, nil
	}

	path := ResolveImagePath(strings.TrimPrefix(dest, "file://"), r.sourceDir)
	_, _ = w.WriteString(`\includegraphics[width=0.8\linewidth]{` + escapeURL(path) + "}")
	return ast.WalkSkipChildren, nil
}

// plainText collects the text content of n's descendants.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (r *texRenderer) renderStrikethrough(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`\sout{`)
	} else {
		_ = w.WriteByte('}')
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderTaskCheckBox(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	if node.(*east.TaskCheckBox).IsChecked {
		_, _ = w.WriteString(`\texttt{[x]} `)
	} else {
		_, _ = w.WriteString(`\texttt{[\ ]} `)
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderTable(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*east.Table)
	if !entering {
		_, _ = w.WriteString("\\hline\n\\end{tabular}\n\\end{center}\n\n")
		return ast.WalkContinue, nil
	}

	var spec strings.Builder
	spec.WriteByte('|')
	for _, a := range n.Alignments {
		switch a {
		case east.AlignRight:
			spec.WriteByte('r')
		case east.AlignCenter:
			spec.WriteByte('c')
		default:
			spec.WriteByte('l')
		}
		spec.WriteByte('|')
	}
	_, _ = w.WriteString("\\begin{center}\n\\begin{tabular}{" + spec.String() + "}\n\\hline\n")
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderTableRow(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(" \\\\\n")
	if n.Kind() == east.KindTableHeader {
		_, _ = w.WriteString("\\hline\n")
	}
	return ast.WalkContinue, nil
}

func (r *texRenderer) renderTableCell(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering && n.PreviousSibling() != nil {
		_, _ = w.WriteString(" & ")
	}
	if entering && n.Parent() != nil && n.Parent().Kind() == east.KindTableHeader {
		_, _ = w.WriteString(`\textbf{`)
	}
	if !entering && n.Parent() != nil && n.Parent().Kind() == east.KindTableHeader {
		_ = w.WriteByte('}')
	}
	return ast.WalkContinue, nil
}

var _ renderer.NodeRenderer = (*texRenderer)(nil)
