// Package engine implements the dispatch engine behind a runner. It keeps
// per-session state (latest step, include stack, recording) and selects the
// single step that reacts to each incoming event via the step predicates of
// pkg/api.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/jpelkone/stride/internal/persistence"
	"github.com/jpelkone/stride/pkg/api"
)

// ErrNotRunning is returned by ReactTo when the runner has no model bound.
var ErrNotRunning = errors.New("runner is not running, call Run first")

// includeFrame tracks one active use case inclusion. While a frame is on
// the stack, only steps of its use case are dispatchable; when the included
// use case finishes, dispatch resumes after the including step.
type includeFrame struct {
	useCase     *api.UseCase
	includeStep *api.Step
}

// Runner executes a model. Each Runner is an independent session: it holds
// the dispatch position, the acting actor and the optional step recording.
// A Runner is safe for use from multiple goroutines; events are dispatched
// one at a time.
type Runner struct {
	mu sync.Mutex

	id    string
	model *api.Model
	actor *api.Actor

	latestStep *api.Step
	latestFlow *api.Flow

	recording bool
	recorded  []string

	includes         []includeFrame
	skipAlternatives bool

	observer api.Observer
	traces   persistence.TraceStore
	logger   *slog.Logger
	seq      int64
}

// New creates an unbound Runner. Call Run to bind it to a model.
func New(opts ...Option) *Runner {
	r := &Runner{
		id:       uuid.NewString(),
		observer: api.NoopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ID returns the runner's unique identifier.
func (r *Runner) ID() string { return r.id }

// Run binds the runner to a model, resets the dispatch position, sets the
// acting actor to the model's default user actor and executes any step that
// is eligible without an event. Rebinding a running runner starts over.
func (r *Runner) Run(model *api.Model) error {
	if model == nil {
		return errors.New("run: model must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.model = model
	r.actor = model.UserActor()
	r.reset()
	r.observer.OnRunStarted(r.id, model)
	return r.reactToAutonomous()
}

// Restart clears the dispatch position without unbinding the model or
// discarding the recording, then executes any step eligible without an
// event, as if the model had just been run.
func (r *Runner) Restart() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	if r.model == nil {
		return nil
	}
	return r.reactToAutonomous()
}

func (r *Runner) reset() {
	r.latestStep = nil
	r.latestFlow = nil
	r.includes = nil
	r.skipAlternatives = false
}

// As sets the acting actor for subsequent events. A nil actor resets to the
// model's default user actor. As returns the runner for chaining.
func (r *Runner) As(actor *api.Actor) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor == nil && r.model != nil {
		actor = r.model.UserActor()
	}
	r.actor = actor
	return r
}

// ReactTo dispatches the events in order. Each event reaches at most one
// step; an event no eligible step is declared on is dropped. Dispatch stops
// at the first error: an unhandled reaction failure or an unresolvable
// ambiguity.
func (r *Runner) ReactTo(events ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model == nil {
		return ErrNotRunning
	}
	for _, event := range events {
		if err := r.reactTo(event); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) reactTo(event any) error {
	t := reflect.TypeOf(event)
	if t == nil {
		r.observer.OnEventDropped(r.id, event)
		return nil
	}
	cands := r.eligibleSteps(t)
	if len(cands) == 0 {
		r.observer.OnEventDropped(r.id, event)
		return nil
	}
	step, err := r.resolveOne(cands, t.String())
	if err != nil {
		return err
	}
	if err := r.executeStep(step, event); err != nil {
		return err
	}
	return r.reactToAutonomous()
}

// reactToAutonomous executes autonomous steps until none is eligible. The
// cascade runs after Run, Restart and every dispatched event.
func (r *Runner) reactToAutonomous() error {
	for {
		cands := r.eligibleSteps(nil)
		if len(cands) == 0 {
			return nil
		}
		step, err := r.resolveOne(cands, "system")
		if err != nil {
			return err
		}
		if err := r.executeStep(step, nil); err != nil {
			return err
		}
	}
}

// eligibleSteps collects the steps whose declared event type matches t and
// whose predicate holds in the current state, in model declaration order.
// A nil t selects autonomous steps.
func (r *Runner) eligibleSteps(t reflect.Type) []*api.Step {
	state := r.state()
	var out []*api.Step
	for _, s := range r.model.Steps() {
		if s.Autonomous() {
			if t != nil {
				continue
			}
		} else if t == nil || !api.EventTypeMatches(s.EventType(), t) {
			continue
		}
		if !r.inScope(s) {
			continue
		}
		if s.Predicate()(state) {
			out = append(out, s)
		}
	}
	return out
}

// inScope restricts dispatch to the innermost included use case while an
// inclusion is active.
func (r *Runner) inScope(s *api.Step) bool {
	if len(r.includes) == 0 {
		return true
	}
	return s.UseCase() == r.includes[len(r.includes)-1].useCase
}

// resolveOne picks the single reacting step from the candidates. Entry
// steps of interrupting flows take precedence over everything else; among
// equals within one use case, the earliest declared step wins. Candidates
// spread over several use cases cannot be ordered and yield an
// AmbiguousReactionError.
func (r *Runner) resolveOne(cands []*api.Step, eventName string) (*api.Step, error) {
	if len(cands) == 1 {
		return cands[0], nil
	}
	var interrupting []*api.Step
	for _, s := range cands {
		if s.Interrupting() {
			interrupting = append(interrupting, s)
		}
	}
	if len(interrupting) > 0 && len(interrupting) < len(cands) {
		cands = interrupting
	}
	if len(cands) == 1 {
		return cands[0], nil
	}
	sameUseCase := true
	for _, s := range cands[1:] {
		if s.UseCase() != cands[0].UseCase() {
			sameUseCase = false
			break
		}
	}
	if sameUseCase {
		return cands[0], nil
	}
	names := make([]string, len(cands))
	for i, s := range cands {
		names[i] = s.String()
	}
	return nil, &api.AmbiguousReactionError{EventName: eventName, StepNames: names}
}

// executeStep commits the step as the latest executed step, runs its
// reaction, and applies its control effect (continuation or inclusion).
//
// The commit happens before the reaction so that a failure handler placed
// after the failing step is eligible during failure dispatch. If the
// failure stays unhandled, the commit is rolled back: the runner is left as
// it was immediately before the failing step.
func (r *Runner) executeStep(s *api.Step, event any) error {
	prevStep, prevFlow := r.latestStep, r.latestFlow
	prevRecorded := len(r.recorded)

	r.latestStep = s
	r.latestFlow = s.Flow()
	if r.recording {
		r.recorded = append(r.recorded, s.Name())
	}

	if reaction := s.Reaction(); reaction != nil {
		if ferr := reaction(event); ferr != nil {
			handled, herr := r.handleFailure(ferr)
			if handled {
				return nil
			}
			r.latestStep, r.latestFlow = prevStep, prevFlow
			if r.recording {
				r.recorded = r.recorded[:prevRecorded]
			}
			if herr != nil {
				return herr
			}
			r.observer.OnFailurePropagated(r.id, s, ferr)
			return ferr
		}
	}

	r.observer.OnStepExecuted(r.id, s, event)
	r.appendTrace(s)

	// The bypass flag is one-shot: clear it before applyControl so that a
	// bypassed step declaring its own bypass arms it for the next reaction.
	r.skipAlternatives = false
	r.applyControl(s)
	r.popIncludes()
	return nil
}

// handleFailure re-dispatches a reaction failure as an event. A step
// declared on the failure's type (or on the error interface) recovers it;
// dispatch then continues from the handling step's position.
func (r *Runner) handleFailure(ferr error) (bool, error) {
	t := reflect.TypeOf(ferr)
	cands := r.eligibleSteps(t)
	if len(cands) == 0 {
		return false, nil
	}
	s, err := r.resolveOne(cands, t.String())
	if err != nil {
		return false, err
	}
	if err := r.executeStep(s, ferr); err != nil {
		return false, err
	}
	r.observer.OnFailureHandled(r.id, s, ferr)
	return true, nil
}

// applyControl moves the dispatch position for continuation steps and
// pushes an include frame for steps that include a use case.
func (r *Runner) applyControl(s *api.Step) {
	if kind, target := s.Continuation(); kind != api.ContinueNone {
		switch kind {
		case api.ContinueAfter:
			r.latestStep = target
		case api.ContinueAt:
			r.latestStep = target.Anchor()
		case api.ContinueWithoutAlternativeAt:
			r.latestStep = target.Anchor()
			r.skipAlternatives = true
		}
		if r.latestStep != nil {
			r.latestFlow = r.latestStep.Flow()
		} else {
			r.latestFlow = nil
		}
	}
	if inc := s.IncludedUseCase(); inc != nil {
		r.includes = append(r.includes, includeFrame{useCase: inc, includeStep: s})
		r.latestStep = nil
		r.latestFlow = nil
	}
}

// popIncludes unwinds include frames whose use case has run to the end of
// one of its flows, resuming after the including step each time.
func (r *Runner) popIncludes() {
	for len(r.includes) > 0 {
		frame := r.includes[len(r.includes)-1]
		ls := r.latestStep
		if ls == nil || ls.UseCase() != frame.useCase || ls.Flow().LastStep() != ls {
			return
		}
		r.includes = r.includes[:len(r.includes)-1]
		r.latestStep = frame.includeStep
		r.latestFlow = frame.includeStep.Flow()
	}
}

func (r *Runner) appendTrace(s *api.Step) {
	if r.traces == nil {
		return
	}
	r.seq++
	entry := persistence.TraceEntry{
		RunnerID: r.id,
		Seq:      r.seq,
		UseCase:  s.UseCase().Name(),
		Flow:     s.Flow().Name(),
		Step:     s.Name(),
		Event:    s.EventName(),
	}
	if err := r.traces.Append(context.Background(), entry); err != nil {
		r.logger.Warn("trace append failed",
			slog.String("runner_id", r.id),
			slog.String("step", s.Name()),
			slog.Any("error", err),
		)
	}
}

// StartRecording starts recording the names of executed steps. Recording is
// cumulative until StopRecording; previously recorded names are kept.
func (r *Runner) StartRecording() *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	return r
}

// StopRecording stops recording executed step names.
func (r *Runner) StopRecording() *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	return r
}

// RecordedStepNames returns the names of the steps executed while recording
// was active, in execution order.
func (r *Runner) RecordedStepNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.recorded))
	copy(out, r.recorded)
	return out
}

// IsRunning reports whether the runner has a model bound.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model != nil
}

// LatestStep returns the most recently executed step, or nil.
func (r *Runner) LatestStep() *api.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latestStep
}

// LatestFlow returns the flow of the most recently executed step, or nil.
func (r *Runner) LatestFlow() *api.Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latestFlow
}

// State returns the runner's observable dispatch state.
func (r *Runner) State() api.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state()
}

func (r *Runner) state() api.State {
	return api.State{
		LatestStep:          r.latestStep,
		LatestFlow:          r.latestFlow,
		Actor:               r.actor,
		WithoutAlternatives: r.skipAlternatives,
	}
}

// CanReactTo reports whether at least one eligible step is declared on the
// event type t.
func (r *Runner) CanReactTo(t reflect.Type) bool {
	return len(r.StepsThatCanReactTo(t)) > 0
}

// StepsThatCanReactTo returns the eligible steps declared on the event type
// t, in model declaration order. It is an introspection aid; dispatch
// itself narrows the same set down to a single step.
func (r *Runner) StepsThatCanReactTo(t reflect.Type) []*api.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model == nil {
		return nil
	}
	return r.eligibleSteps(t)
}
