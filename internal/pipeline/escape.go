package pipeline

import "strings"

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	`<`, `\textless{}`,
	`>`, `\textgreater{}`,
	`|`, `\textbar{}`,
)

// Escape makes s safe to place in LaTeX running text.
func Escape(s string) string {
	return textEscaper.Replace(s)
}

// Inside \href and \url only these break the argument.
var urlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`#`, `\#`,
	`{`, `\{`,
	`}`, `\}`,
)

func escapeURL(s string) string {
	return urlEscaper.Replace(s)
}

// For Verbatim with commandchars=\\\{\}.
var verbatimEscaper = strings.NewReplacer(
	`\`, `\char92{}`,
	`{`, `\char123{}`,
	`}`, `\char125{}`,
)

func escapeVerbatim(s string) string {
	return verbatimEscaper.Replace(s)
}
