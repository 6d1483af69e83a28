package api

// State is the observable dispatch state of a runner: the step and flow
// that most recently executed, and the current acting actor. Conditions
// receive the state explicitly so they stay independently testable.
type State struct {
	// LatestStep is the most recently executed step, or nil if nothing has
	// run since the runner was started or restarted.
	LatestStep *Step

	// LatestFlow is the flow of the most recently executed step, or nil.
	LatestFlow *Flow

	// Actor is the current acting actor.
	Actor *Actor

	// WithoutAlternatives suppresses entry steps of interrupting flows for
	// the next reaction. It is set by a "continues without alternative at"
	// step and cleared once a step has reacted.
	WithoutAlternatives bool
}

// Condition is a boolean predicate over runner state. A nil Condition is
// treated as "always true".
type Condition func(State) bool

// Anytime is a Condition that always holds.
func Anytime(State) bool { return true }

// PositionKind discriminates flow position specifications.
type PositionKind int

const (
	// Anywhere places a flow without a position gate; its first step is
	// eligible regardless of what ran before.
	Anywhere PositionKind = iota

	// AtStart places a flow at the very beginning: its first step is only
	// eligible while no step has ever run.
	AtStart

	// After places a flow behind a named step: its first step is eligible
	// right after that step executed.
	After

	// InsteadOf places a flow as an alternative to a named step: its first
	// step is eligible exactly where the named step would be.
	InsteadOf
)

// FlowPosition is a flow's resolved position specification.
type FlowPosition struct {
	Kind PositionKind

	// Step is the reference step for After and InsteadOf positions.
	Step *Step
}

// String renders the position the way documentation extractors print it.
func (p FlowPosition) String() string {
	switch p.Kind {
	case AtStart:
		return "at start"
	case After:
		return "after " + p.Step.Name()
	case InsteadOf:
		return "instead of " + p.Step.Name()
	default:
		return "anytime"
	}
}

// holds evaluates a possibly nil condition.
func holds(c Condition, state State) bool {
	return c == nil || c(state)
}
