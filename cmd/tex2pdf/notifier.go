package main

import (
	"context"
	"log/slog"
	"time"

	tex2pdf "github.com/alnah/go-tex2pdf"
)

// logNotifier writes compile events to the CLI logger.
type logNotifier struct {
	logger *slog.Logger
}

var _ tex2pdf.Notifier = logNotifier{}

func newLogNotifier(logger *slog.Logger) logNotifier {
	return logNotifier{logger: logger}
}

func (n logNotifier) Notify(ctx context.Context, ev tex2pdf.Event) {
	attrs := []any{
		"passes", ev.Passes,
		"duration", ev.Duration.Round(time.Millisecond),
	}
	if input, ok := ev.Metadata[metaInput]; ok {
		attrs = append(attrs, "input", input)
	}

	if ev.Err != nil {
		n.logger.InfoContext(ctx, "compile failed", append(attrs, "error", ev.Err)...)
		return
	}
	n.logger.InfoContext(ctx, "compile succeeded", append(attrs, "output", ev.OutputPath)...)
}
