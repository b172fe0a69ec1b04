// Package render turns LaTeX templates plus data into LaTeX source.
//
// Templates use text/template with [[ ]] delimiters so LaTeX braces never
// need escaping. Available functions:
//
//	escape   LaTeX-escape a value
//	markdown convert Markdown to LaTeX
//	date     format a date: date "long" .date, or date "DD/MM/YYYY"
//	join     escape each item and join with a raw separator
//	default  fallback for empty values: default "Untitled" .title
package render

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-tex2pdf/internal/assets"
	"github.com/alnah/go-tex2pdf/internal/dateutil"
	"github.com/alnah/go-tex2pdf/internal/pipeline"
)

// Sentinel errors for rendering.
var (
	ErrTemplateParse   = errors.New("template parse failed")
	ErrTemplateExecute = errors.New("template execution failed")
)

// Delimiters used by every template.
const (
	LeftDelim  = "[["
	RightDelim = "]]"
)

// Renderer renders named templates from an asset loader.
type Renderer struct {
	loader   assets.AssetLoader
	markdown pipeline.LaTeXConverter
	now      func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMarkdownConverter replaces the converter behind the markdown function.
func WithMarkdownConverter(c pipeline.LaTeXConverter) Option {
	return func(r *Renderer) { r.markdown = c }
}

// WithNow fixes the clock used by the date function.
func WithNow(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a Renderer reading templates from loader.
func New(loader assets.AssetLoader, opts ...Option) *Renderer {
	r := &Renderer{
		loader:   loader,
		markdown: pipeline.NewGoldmarkConverter(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render loads the template called name and executes it with data.
// A missing template yields an error matching assets.ErrTemplateNotFound.
func (r *Renderer) Render(ctx context.Context, name string, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := r.loader.LoadTemplate(name)
	if err != nil {
		return "", err
	}
	return r.RenderText(ctx, name, text, data)
}

// RenderText executes template text that did not come from the loader.
func (r *Renderer) RenderText(ctx context.Context, name, text string, data any) (string, error) {
	tmpl, err := template.New(name).
		Delims(LeftDelim, RightDelim).
		Option("missingkey=zero").
		Funcs(r.funcs(ctx)).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrTemplateExecute, err)
	}
	return out.String(), nil
}

func (r *Renderer) funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"escape": escapeValue,
		"markdown": func(v any) (string, error) {
			s := stringify(v)
			if s == "" {
				return "", nil
			}
			return r.markdown.ToLaTeX(ctx, s)
		},
		"date": func(spec string, v ...any) (string, error) {
			var value any
			if len(v) > 0 {
				value = v[0]
			}
			t, err := dateutil.Coerce(value, r.now())
			if err != nil {
				return "", err
			}
			return dateutil.Format(spec, t)
		},
		"join":    join,
		"default": defaultValue,
	}
}

func escapeValue(v any) string {
	return pipeline.Escape(stringify(v))
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// join escapes each item of a slice and joins them with sep. A scalar is
// treated as a one-item list.
func join(sep string, v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return escapeValue(v)
	}
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, escapeValue(rv.Index(i).Interface()))
	}
	return strings.Join(parts, sep)
}

// defaultValue returns def when v is nil or the zero value of its type, or an
// empty slice or map.
func defaultValue(def, v any) any {
	if v == nil {
		return def
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		if rv.Len() == 0 {
			return def
		}
		return v
	}
	if rv.IsZero() {
		return def
	}
	return v
}
