package api

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from a runner for logging and metrics.
//
// Implementations should be fast and non-blocking; dispatch is synchronous
// and an observer callback delays it directly.
type Observer interface {
	// OnRunStarted is called once when a runner binds to a model, before
	// the initial autonomous drain.
	OnRunStarted(runnerID string, model *Model)

	// OnStepExecuted is called after a step's reaction completed without
	// failure. event is nil for autonomous steps.
	OnStepExecuted(runnerID string, step *Step, event any)

	// OnEventDropped is called when an event matches no eligible step and
	// is silently discarded.
	OnEventDropped(runnerID string, event any)

	// OnFailureHandled is called when a reaction failure was recovered by
	// the named handling step.
	OnFailureHandled(runnerID string, step *Step, err error)

	// OnFailurePropagated is called when a reaction failure found no
	// handling step and is about to propagate to the caller.
	OnFailurePropagated(runnerID string, step *Step, err error)
}

// NoopObserver is an Observer that does nothing. It is the default when no
// observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnRunStarted(runnerID string, model *Model)              {}
func (NoopObserver) OnStepExecuted(runnerID string, step *Step, event any)   {}
func (NoopObserver) OnEventDropped(runnerID string, event any)               {}
func (NoopObserver) OnFailureHandled(runnerID string, step *Step, err error) {}
func (NoopObserver) OnFailurePropagated(runnerID string, step *Step, err error) {
}

// CompositeObserver fans out callbacks to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards callbacks to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnRunStarted(runnerID string, model *Model) {
	for _, o := range c.observers {
		o.OnRunStarted(runnerID, model)
	}
}

func (c *CompositeObserver) OnStepExecuted(runnerID string, step *Step, event any) {
	for _, o := range c.observers {
		o.OnStepExecuted(runnerID, step, event)
	}
}

func (c *CompositeObserver) OnEventDropped(runnerID string, event any) {
	for _, o := range c.observers {
		o.OnEventDropped(runnerID, event)
	}
}

func (c *CompositeObserver) OnFailureHandled(runnerID string, step *Step, err error) {
	for _, o := range c.observers {
		o.OnFailureHandled(runnerID, step, err)
	}
}

func (c *CompositeObserver) OnFailurePropagated(runnerID string, step *Step, err error) {
	for _, o := range c.observers {
		o.OnFailurePropagated(runnerID, step, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs dispatch lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnRunStarted(runnerID string, model *Model) {
	o.Logger.Info("runner_started",
		slog.String("runner_id", runnerID),
		slog.Int("use_cases", len(model.useCases)),
	)
}

func (o *LoggingObserver) OnStepExecuted(runnerID string, step *Step, event any) {
	o.Logger.Debug("step_executed",
		slog.String("runner_id", runnerID),
		slog.String("use_case", step.UseCase().Name()),
		slog.String("flow", step.Flow().Name()),
		slog.String("step", step.Name()),
		slog.String("event", step.EventName()),
	)
}

func (o *LoggingObserver) OnEventDropped(runnerID string, event any) {
	o.Logger.Debug("event_dropped",
		slog.String("runner_id", runnerID),
		slog.Any("event", event),
	)
}

func (o *LoggingObserver) OnFailureHandled(runnerID string, step *Step, err error) {
	o.Logger.Info("failure_handled",
		slog.String("runner_id", runnerID),
		slog.String("step", step.Name()),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnFailurePropagated(runnerID string, step *Step, err error) {
	o.Logger.Error("failure_propagated",
		slog.String("runner_id", runnerID),
		slog.String("step", step.Name()),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple dispatch counters. It implements Observer
// and can be combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	stepsExecuted      atomic.Int64
	eventsDropped      atomic.Int64
	failuresHandled    atomic.Int64
	failuresPropagated atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	StepsExecuted      int64
	EventsDropped      int64
	FailuresHandled    int64
	FailuresPropagated int64
}

func (m *BasicMetrics) OnStepExecuted(runnerID string, step *Step, event any) {
	m.stepsExecuted.Add(1)
}

func (m *BasicMetrics) OnEventDropped(runnerID string, event any) {
	m.eventsDropped.Add(1)
}

func (m *BasicMetrics) OnFailureHandled(runnerID string, step *Step, err error) {
	m.failuresHandled.Add(1)
}

func (m *BasicMetrics) OnFailurePropagated(runnerID string, step *Step, err error) {
	m.failuresPropagated.Add(1)
}

// Snapshot returns a snapshot of the current counters.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		StepsExecuted:      m.stepsExecuted.Load(),
		EventsDropped:      m.eventsDropped.Load(),
		FailuresHandled:    m.failuresHandled.Load(),
		FailuresPropagated: m.failuresPropagated.Load(),
	}
}
