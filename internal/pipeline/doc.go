// Package pipeline implements the Markdown-to-LaTeX conversion used by the
// "markdown" template function.
//
// Stages:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to LaTeX conversion via a goldmark node renderer
//   - Fenced code highlighting via chroma, emitted as fancyvrb Verbatim
//   - Relative image paths resolved against the source directory
//
// The generated fragment expects graphicx, xcolor, fancyvrb, ulem and
// hyperref in the document preamble. The embedded templates load them.
package pipeline
