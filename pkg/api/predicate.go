package api

// Predicate returns the step's complete eligibility condition. It is the
// conjunction of flow reachability, the flow's entry condition, actor
// membership, and (for steps of non-interrupting flows) the interruption
// guard. A step with a ReactWhile condition re-arms behind itself while the
// condition holds, still yielding to eligible interrupting steps.
func (s *Step) Predicate() Condition {
	return func(state State) bool {
		if s.reactWhile != nil {
			return (s.positionHolds(state) || state.LatestStep == s) &&
				s.entryConditionHolds(state) &&
				s.actorAllowed(state) &&
				s.reactWhile(state) &&
				(s.Interrupting() || s.noInterruptingStepCanReact(state))
		}
		if s.Interrupting() {
			return !state.WithoutAlternatives &&
				s.inDifferentFlow(state) &&
				s.positionHolds(state) &&
				s.entryConditionHolds(state) &&
				s.actorAllowed(state)
		}
		return s.positionHolds(state) &&
			s.entryConditionHolds(state) &&
			s.actorAllowed(state) &&
			s.noInterruptingStepCanReact(state)
	}
}

// positionHolds reports flow reachability: the flow's position gate for the
// flow's first step, "right after the previous step" for every other step.
func (s *Step) positionHolds(state State) bool {
	if s.previous != nil {
		return state.LatestStep == s.previous
	}
	if s.flow.position.Kind == Anywhere {
		return true
	}
	return state.LatestStep == s.Anchor()
}

// entryConditionHolds evaluates the flow's when condition. It gates flow
// entry only: once the flow's first step has run, later steps follow the
// previous-step chain unconditionally.
func (s *Step) entryConditionHolds(state State) bool {
	if s.previous != nil {
		return true
	}
	return holds(s.flow.when, state)
}

// actorAllowed reports whether the runner's acting context may trigger
// this step. A step bound to the system actor is triggerable regardless of
// the current actor; the engine itself acts as the system.
func (s *Step) actorAllowed(state State) bool {
	system := s.useCase.model.systemActor
	for _, a := range s.actors {
		if a == system || a == state.Actor {
			return true
		}
	}
	return false
}

// inDifferentFlow keeps an interrupting flow from interrupting itself.
func (s *Step) inDifferentFlow(state State) bool {
	return state.LatestFlow != s.flow
}

// noInterruptingStepCanReact is the interruption guard: a step of a
// non-interrupting flow yields when any interrupting step of the same use
// case bound to the same input event type is itself eligible. This lets an
// alternative flow pre-empt continuation of the flow it interrupts without
// the base flow knowing about it. The guard stays within the use case so
// that a step of an included use case is never suppressed by a flow the
// active inclusion puts out of reach.
func (s *Step) noInterruptingStepCanReact(state State) bool {
	for _, t := range s.useCase.model.steps {
		if t == s || t.useCase != s.useCase || !t.Interrupting() {
			continue
		}
		if !preemptsEventOf(t, s) {
			continue
		}
		if t.Predicate()(state) {
			return false
		}
	}
	return true
}

// preemptsEventOf reports whether step t competes for the events step s is
// declared on. Autonomous steps only compete with autonomous steps.
func preemptsEventOf(t, s *Step) bool {
	if s.eventType == nil {
		return t.eventType == nil
	}
	return t.eventType != nil && EventTypeMatches(t.eventType, s.eventType)
}
