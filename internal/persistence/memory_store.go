package persistence

import (
	"context"
	"sync"
	"time"
)

// MemoryTraceStore is a simple, goroutine-safe TraceStore backed by a map.
type MemoryTraceStore struct {
	mu      sync.RWMutex
	entries map[string][]TraceEntry
}

// NewMemoryTraceStore creates a new MemoryTraceStore.
func NewMemoryTraceStore() *MemoryTraceStore {
	return &MemoryTraceStore{entries: make(map[string][]TraceEntry)}
}

var _ TraceStore = (*MemoryTraceStore)(nil)

func (s *MemoryTraceStore) Append(ctx context.Context, e TraceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.entries[e.RunnerID] = append(s.entries[e.RunnerID], e)
	return nil
}

func (s *MemoryTraceStore) List(ctx context.Context, runnerID string) ([]TraceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.entries[runnerID]
	out := make([]TraceEntry, len(src))
	copy(out, src)
	return out, nil
}
