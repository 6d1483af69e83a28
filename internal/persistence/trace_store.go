package persistence

import (
	"context"
	"time"
)

// TraceEntry is one executed step in a runner's trace. Traces are an
// append-only observability record; they are not used for dispatch and
// carry no recovery semantics.
type TraceEntry struct {
	RunnerID string
	Seq      int64
	UseCase  string
	Flow     string
	Step     string
	Event    string // declared event type name, empty for autonomous steps
	At       time.Time
}

// TraceStore is an append-only store for executed-step traces.
type TraceStore interface {
	Append(ctx context.Context, e TraceEntry) error
	List(ctx context.Context, runnerID string) ([]TraceEntry, error)
}

// NoopTraceStore discards all entries.
type NoopTraceStore struct{}

func (NoopTraceStore) Append(ctx context.Context, e TraceEntry) error { return nil }
func (NoopTraceStore) List(ctx context.Context, runnerID string) ([]TraceEntry, error) {
	return nil, nil
}
