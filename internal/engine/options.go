package engine

import (
	"log/slog"

	"github.com/jpelkone/stride/internal/persistence"
	"github.com/jpelkone/stride/pkg/api"
)

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithObserver sets the observer that receives dispatch callbacks. Combine
// several observers with api.NewCompositeObserver.
func WithObserver(o api.Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithTraceStore makes the runner append a trace entry for every executed
// step. Append failures are logged and do not affect dispatch.
func WithTraceStore(s persistence.TraceStore) Option {
	return func(r *Runner) {
		r.traces = s
	}
}

// WithLogger sets the logger for the runner's own diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithID overrides the generated runner identifier. Useful when traces of a
// restarted process must continue under the same identifier.
func WithID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.id = id
		}
	}
}
