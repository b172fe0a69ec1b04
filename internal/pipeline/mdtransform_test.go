package pipeline

import (
	"context"
	"testing"
)

func TestCommonMarkPreprocessor(t *testing.T) {
	t.Parallel()

	p := &CommonMarkPreprocessor{}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "crlf normalized", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "blank lines compressed", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "highlight marked", input: "a ==hot== b", want: "a " + MarkStartPlaceholder + "hot" + MarkEndPlaceholder + " b"},
		{name: "highlight does not span lines", input: "==a\nb==", want: "==a\nb=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCommonMarkPreprocessor_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\n==b=="
	if got := (&CommonMarkPreprocessor{}).PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("PreprocessMarkdown() with cancelled ctx = %q, want input unchanged", got)
	}
}

func TestMarkPlaceholders(t *testing.T) {
	t.Parallel()

	marked := MarkStartPlaceholder + "x" + MarkEndPlaceholder
	if got := ConvertMarkPlaceholders(marked); got != `\colorbox{yellow}{x}` {
		t.Errorf("ConvertMarkPlaceholders() = %q", got)
	}
	if got := restoreMarkSyntax(marked); got != "==x==" {
		t.Errorf("restoreMarkSyntax() = %q", got)
	}
}
