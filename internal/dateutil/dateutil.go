// Package dateutil formats dates from user-friendly token layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrInvalidDate indicates a value that cannot be read as a date.
var ErrInvalidDate = errors.New("invalid date value")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when no format is given.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps tokens to Go layout components, longest first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a token format string to a Go time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text in brackets is literal,
// so "[Week of] D MMM" keeps "Week of" as written.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 10)

	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			layout.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		token, goFmt := matchToken(rest)
		if token == "" {
			layout.WriteByte(rest[0])
			rest = rest[1:]
			continue
		}
		layout.WriteString(goFmt)
		rest = rest[len(token):]
	}

	return layout.String(), nil
}

func matchToken(s string) (token, goFmt string) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t.token, t.goFmt
		}
	}
	return "", ""
}

// Format renders t with a preset name (iso, european, us, long) or a token
// format. An empty spec uses DefaultDateFormat.
func Format(spec string, t time.Time) (string, error) {
	if spec == "" {
		spec = DefaultDateFormat
	}
	if preset, ok := DatePresets[strings.ToLower(spec)]; ok {
		spec = preset
	}
	layout, err := ParseDateFormat(spec)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// Coerce reads v as a date. Accepted: time.Time, "today"/"auto"/"" (now),
// and strings in YYYY-MM-DD or RFC3339 form.
func Coerce(v any, now time.Time) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return now, nil
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return now, nil
		}
		return *val, nil
	case string:
		s := strings.TrimSpace(val)
		switch strings.ToLower(s) {
		case "", "today", "auto":
			return now, nil
		}
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD or RFC3339)", ErrInvalidDate, s)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}
