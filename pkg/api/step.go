package api

import "reflect"

// Reaction is the function a step executes when it reacts. For user steps
// the matched event is passed in; for autonomous steps event is nil.
//
// A non-nil error is a failure: the runner re-dispatches it as an event so
// a step declared on the failure's type can recover it. An unrecovered
// failure propagates to the ReactTo caller.
type Reaction func(event any) error

// ContinuationKind describes how a continuation step moves the runner's
// position inside its use case.
type ContinuationKind int

const (
	// ContinueNone marks a step without continuation.
	ContinueNone ContinuationKind = iota

	// ContinueAt makes the runner continue at the target step. Alternative
	// flows starting at the target may be entered.
	ContinueAt

	// ContinueAfter makes the runner continue after the target step.
	ContinueAfter

	// ContinueWithoutAlternativeAt makes the runner continue at the target
	// step without entering any alternative flow starting there.
	ContinueWithoutAlternativeAt
)

// Step is the smallest behavior unit of a use case: a declared input event
// type (nil for autonomous steps), a derived eligibility predicate, an
// actor set, and a reaction. Steps are created during construction and are
// immutable afterwards.
type Step struct {
	name       string
	useCase    *UseCase
	flow       *Flow
	previous   *Step
	modelIndex int

	eventType reflect.Type // nil for autonomous steps
	eventName string       // display name override, defaults to eventType's name
	actors    []*Actor
	reaction  Reaction

	reactWhile Condition

	continuation     ContinuationKind
	continuationStep *Step
	continuationName string // unresolved until Build

	includedUseCase     *UseCase
	includedUseCaseName string // unresolved until Build
}

// Name returns the step's unique name within its use case.
func (s *Step) Name() string { return s.name }

func (s *Step) String() string { return s.useCase.name + "/" + s.name }

// UseCase returns the use case this step belongs to.
func (s *Step) UseCase() *UseCase { return s.useCase }

// Flow returns the flow this step belongs to.
func (s *Step) Flow() *Flow { return s.flow }

// Previous returns the step that precedes this step in its flow, or nil if
// this step is the flow's first step.
func (s *Step) Previous() *Step { return s.previous }

// EventType returns the declared input event type of this step, or nil for
// an autonomous step.
func (s *Step) EventType() reflect.Type { return s.eventType }

// EventName returns a human-readable name for the declared event type.
// It is the event type's Go name unless construction set a display name.
func (s *Step) EventName() string {
	if s.eventName != "" {
		return s.eventName
	}
	if s.eventType == nil {
		return ""
	}
	return s.eventType.Name()
}

// Autonomous reports whether this step has no declared input event type
// and therefore fires on the engine's own completion signal only.
func (s *Step) Autonomous() bool { return s.eventType == nil }

// Actors returns the actors permitted to trigger this step.
func (s *Step) Actors() []*Actor {
	out := make([]*Actor, len(s.actors))
	copy(out, s.actors)
	return out
}

// Reaction returns the step's reaction, or nil if the step only consumes
// its event.
func (s *Step) Reaction() Reaction { return s.reaction }

// ReactWhile returns the step's repetition condition, or nil.
func (s *Step) ReactWhile() Condition { return s.reactWhile }

// Continuation returns the step's continuation kind and target step.
// The target is nil when the kind is ContinueNone.
func (s *Step) Continuation() (ContinuationKind, *Step) {
	return s.continuation, s.continuationStep
}

// IncludedUseCase returns the use case this step includes, or nil.
func (s *Step) IncludedUseCase() *UseCase { return s.includedUseCase }

// Interrupting reports whether this step is the entry step of an
// interrupting flow.
func (s *Step) Interrupting() bool {
	return s.previous == nil && s.flow.Interrupting()
}

// Anchor returns the step after which this step becomes eligible, or nil
// if the step is eligible at the very start. For a flow's first step the
// anchor derives from the flow position; for any other step it is the
// previous step in the flow.
func (s *Step) Anchor() *Step {
	if s.previous != nil {
		return s.previous
	}
	switch pos := s.flow.position; pos.Kind {
	case After:
		return pos.Step
	case InsteadOf:
		return pos.Step.Anchor()
	default:
		// AtStart and Anytime flows anchor at the very beginning.
		return nil
	}
}
