package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// ErrLaTeXConversion indicates Markdown to LaTeX conversion failed.
var ErrLaTeXConversion = errors.New("LaTeX conversion failed")

// LaTeXConverter abstracts Markdown to LaTeX conversion.
type LaTeXConverter interface {
	ToLaTeX(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to a LaTeX fragment using goldmark.
type GoldmarkConverter struct {
	md           goldmark.Markdown
	preprocessor MarkdownPreprocessor
}

type converterConfig struct {
	sourceDir string
	codeStyle string
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

// WithSourceDir resolves relative image paths against dir.
func WithSourceDir(dir string) ConverterOption {
	return func(c *converterConfig) { c.sourceDir = dir }
}

// WithCodeStyle selects the chroma style for fenced code.
func WithCodeStyle(name string) ConverterOption {
	return func(c *converterConfig) { c.codeStyle = name }
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	cfg := converterConfig{codeStyle: DefaultCodeStyle}
	for _, opt := range opts {
		opt(&cfg)
	}

	tex := &texRenderer{
		sourceDir:   cfg.sourceDir,
		highlighter: NewChromaHighlighter(cfg.codeStyle),
	}

	md := goldmark.New(
		// GFM adds its own HTML node renderers at lower precedence; ours wins.
		goldmark.WithRenderer(renderer.NewRenderer(
			renderer.WithNodeRenderers(util.Prioritized(tex, 100)),
		)),
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // \label targets for #anchor links
		),
	)
	return &GoldmarkConverter{md: md, preprocessor: &CommonMarkPreprocessor{}}
}

// ToLaTeX converts Markdown content to a LaTeX fragment.
// Goldmark has no context support, so conversion runs in a goroutine and the
// caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToLaTeX(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		tex string
		err error
	}

	done := make(chan result, 1)

	go func() {
		src := c.preprocessor.PreprocessMarkdown(ctx, content)
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(src), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrLaTeXConversion, err)}
			return
		}
		tex := ConvertMarkPlaceholders(buf.String())
		done <- result{tex: strings.TrimRight(tex, "\n") + "\n"}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.tex, r.err
	}
}

var _ LaTeXConverter = (*GoldmarkConverter)(nil)
