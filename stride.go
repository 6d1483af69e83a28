package stride

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/jpelkone/stride/internal/engine"
	"github.com/jpelkone/stride/internal/persistence"
	"github.com/jpelkone/stride/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Model                  = api.Model
	UseCase                = api.UseCase
	Flow                   = api.Flow
	Step                   = api.Step
	Actor                  = api.Actor
	State                  = api.State
	Condition              = api.Condition
	Reaction               = api.Reaction
	ContinuationKind       = api.ContinuationKind
	FlowPosition           = api.FlowPosition
	Observer               = api.Observer
	NoopObserver           = api.NoopObserver
	LoggingObserver        = api.LoggingObserver
	CompositeObserver      = api.CompositeObserver
	BasicMetrics           = api.BasicMetrics
	BasicMetricsSnapshot   = api.BasicMetricsSnapshot
	AmbiguousReactionError = api.AmbiguousReactionError
	Runner                 = engine.Runner
	RunnerOption           = engine.Option
	TraceStore             = persistence.TraceStore
	TraceEntry             = persistence.TraceEntry
	MemoryTraceStore       = persistence.MemoryTraceStore
	SQLiteTraceStore       = persistence.SQLiteTraceStore
)

// Re-export common observer helpers and runner options.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	WithObserver         = engine.WithObserver
	WithTraceStore       = engine.WithTraceStore
	WithLogger           = engine.WithLogger
	WithID               = engine.WithID
)

// Re-export sentinel errors.

var (
	ErrNotRunning  = engine.ErrNotRunning
	ErrModelFrozen = api.ErrModelFrozen
)

// Re-export the built-in actor names.

const (
	UserActorName   = api.UserActorName
	SystemActorName = api.SystemActorName
)

// Anytime is a Condition that always holds.
func Anytime(s State) bool { return api.Anytime(s) }

// NewRunner creates an independent runner session. Bind it to a model with
// Run, then feed it events with ReactTo:
//
//	runner := stride.NewRunner()
//	if err := runner.Run(model); err != nil { ... }
//	if err := runner.ReactTo(EntersName{Name: "Ada"}); err != nil { ... }
func NewRunner(opts ...RunnerOption) *Runner {
	return engine.New(opts...)
}

// NewMemoryTraceStore returns a TraceStore that keeps step traces in
// memory, best for tests.
func NewMemoryTraceStore() *MemoryTraceStore {
	return persistence.NewMemoryTraceStore()
}

// NewSQLiteTraceStore returns a TraceStore that persists step traces in a
// SQLite database, creating its schema if needed.
func NewSQLiteTraceStore(db *sql.DB) (*SQLiteTraceStore, error) {
	return persistence.NewSQLiteTraceStore(db)
}

// Of returns the event type token for T. Steps declare the events they
// react to with such tokens; T may be an interface, in which case the step
// reacts to every event whose dynamic type implements it. Of[error] matches
// any failure.
func Of[T any]() reflect.Type {
	return api.Of[T]()
}

// Typed adapts a typed handler to a step Reaction. The event dispatched to
// the step is asserted to T before fn runs:
//
//	.User(stride.Of[EntersName]()).System(stride.Typed(func(e EntersName) error {
//	    return greeter.SaveName(e.Name)
//	}))
func Typed[T any](fn func(T) error) Reaction {
	return func(event any) error {
		v, ok := event.(T)
		if !ok {
			return fmt.Errorf("reaction expects %s, got %T", api.Of[T](), event)
		}
		return fn(v)
	}
}

// Ignore is a Reaction that consumes its event and does nothing.
func Ignore(event any) error { return nil }
