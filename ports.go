package tex2pdf

import (
	"context"
	"log/slog"
	"time"
)

// Renderer turns a template name plus data into LaTeX source.
// A missing template must yield an error matching ErrTemplateNotFound.
type Renderer interface {
	Render(ctx context.Context, name string, data any) (string, error)
}

// EventKind identifies a notifier event.
type EventKind string

// Event kinds.
const (
	EventCompileSucceeded EventKind = "compile.succeeded"
	EventCompileFailed    EventKind = "compile.failed"
)

// Event describes the outcome of one compile.
type Event struct {
	Kind       EventKind
	OutputPath string // empty on failure
	Passes     int
	Duration   time.Duration
	Err        error // nil on success
	Metadata   map[string]string
}

// Notifier receives compile events. Delivery is fire-and-forget: the result
// of a compile never depends on the notifier.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, ev Event)

// Notify calls f(ctx, ev).
func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// notifyTimeout bounds how long a notifier may hold the caller.
const notifyTimeout = 5 * time.Second

// notify delivers ev, recovering notifier panics. The notifier gets its own
// context so a cancelled compile still reports its failure.
func notify(n Notifier, logger *slog.Logger, ev Event) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("notifier panicked", "event", string(ev.Kind), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	n.Notify(ctx, ev)
}
