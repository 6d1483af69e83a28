package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// predicateModel builds a use case with a basic flow (P1, P2, P3) and an
// interrupting alternative (A1) instead of P3.
func predicateModel(t *testing.T) *Model {
	t.Helper()

	b := NewModelBuilder()
	uc, err := b.UseCase("Predicates")
	require.NoError(t, err)

	basic := uc.BasicFlow()
	p1, err := b.Step(basic, "P1")
	require.NoError(t, err)
	b.StepEvent(p1, Of[enterName]())
	p2, err := b.Step(basic, "P2")
	require.NoError(t, err)
	b.StepEvent(p2, Of[enterName]())
	p3, err := b.Step(basic, "P3")
	require.NoError(t, err)
	b.StepEvent(p3, Of[enterName]())

	alt, err := b.Flow(uc, "alternative")
	require.NoError(t, err)
	b.PlaceInsteadOf(alt, "P3")
	a1, err := b.Step(alt, "A1")
	require.NoError(t, err)
	b.StepEvent(a1, Of[enterName]())

	model, err := b.Build()
	require.NoError(t, err)
	return model
}

func step(t *testing.T, m *Model, name string) *Step {
	t.Helper()
	uc, err := m.FindUseCase("Predicates")
	require.NoError(t, err)
	s, err := uc.FindStep(name)
	require.NoError(t, err)
	return s
}

func TestFlowHeadEligibleOnlyAtStart(t *testing.T) {
	t.Parallel()

	m := predicateModel(t)
	p1 := step(t, m, "P1")
	user := m.UserActor()

	require.True(t, p1.Predicate()(State{Actor: user}))
	require.False(t, p1.Predicate()(State{LatestStep: p1, LatestFlow: p1.Flow(), Actor: user}))
}

func TestStepEligibleRightAfterPredecessor(t *testing.T) {
	t.Parallel()

	m := predicateModel(t)
	p1, p2 := step(t, m, "P1"), step(t, m, "P2")
	user := m.UserActor()

	require.False(t, p2.Predicate()(State{Actor: user}))
	require.True(t, p2.Predicate()(State{LatestStep: p1, LatestFlow: p1.Flow(), Actor: user}))
}

// TestInterruptionGuard verifies that the instead-of step suppresses the
// step it replaces exactly where both would be eligible.
func TestInterruptionGuard(t *testing.T) {
	t.Parallel()

	m := predicateModel(t)
	p2, p3, a1 := step(t, m, "P2"), step(t, m, "P3"), step(t, m, "A1")
	user := m.UserActor()

	at := State{LatestStep: p2, LatestFlow: p2.Flow(), Actor: user}
	require.True(t, a1.Predicate()(at))
	require.False(t, p3.Predicate()(at), "interrupting step pre-empts the replaced step")

	// With the alternative suppressed, the replaced step is eligible again.
	at.WithoutAlternatives = true
	require.False(t, a1.Predicate()(at))
	require.True(t, p3.Predicate()(at))
}

// TestInterruptingFlowDoesNotInterruptItself verifies that once dispatch
// is inside the alternative flow, its entry step stops competing.
func TestInterruptingFlowDoesNotInterruptItself(t *testing.T) {
	t.Parallel()

	m := predicateModel(t)
	a1 := step(t, m, "A1")
	user := m.UserActor()

	require.False(t, a1.Predicate()(State{LatestStep: a1, LatestFlow: a1.Flow(), Actor: user}))
}

func TestActorMembership(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	customer := b.Actor("Customer")
	uc, err := b.UseCase("Orders")
	require.NoError(t, err)
	s, err := b.Step(uc.BasicFlow(), "places order")
	require.NoError(t, err)
	b.StepEvent(s, Of[enterName]())
	b.StepActors(s, customer)
	m, err := b.Build()
	require.NoError(t, err)

	require.True(t, s.Predicate()(State{Actor: customer}))
	require.False(t, s.Predicate()(State{Actor: m.UserActor()}))
}

// TestSystemActorStepsIgnoreCurrentActor verifies that a step bound to the
// system actor is triggerable regardless of who is acting.
func TestSystemActorStepsIgnoreCurrentActor(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	customer := b.Actor("Customer")
	uc, err := b.UseCase("Background")
	require.NoError(t, err)
	s, err := b.Step(uc.BasicFlow(), "cleans up")
	require.NoError(t, err)
	m, err := b.Build()
	require.NoError(t, err)

	require.True(t, s.Autonomous())
	require.True(t, s.Predicate()(State{Actor: m.UserActor()}))
	require.True(t, s.Predicate()(State{Actor: customer}))
}

func TestReactWhileReArmsBehindItself(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	uc, err := b.UseCase("Cart")
	require.NoError(t, err)
	s, err := b.Step(uc.BasicFlow(), "adds item")
	require.NoError(t, err)
	b.StepEvent(s, Of[enterName]())
	armed := true
	b.StepReactWhile(s, func(State) bool { return armed })
	m, err := b.Build()
	require.NoError(t, err)
	user := m.UserActor()

	require.True(t, s.Predicate()(State{Actor: user}))
	require.True(t, s.Predicate()(State{LatestStep: s, LatestFlow: s.Flow(), Actor: user}))

	armed = false
	require.False(t, s.Predicate()(State{LatestStep: s, LatestFlow: s.Flow(), Actor: user}))
}

// TestReactWhileYieldsToInterruptingStep verifies that a repeating step
// honors the interruption guard while it re-arms behind itself.
func TestReactWhileYieldsToInterruptingStep(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	uc, err := b.UseCase("Cart")
	require.NoError(t, err)
	s, err := b.Step(uc.BasicFlow(), "adds item")
	require.NoError(t, err)
	b.StepEvent(s, Of[enterName]())
	b.StepReactWhile(s, Anytime)

	alt, err := b.Flow(uc, "rejects items")
	require.NoError(t, err)
	b.PlaceAnywhere(alt)
	b.FlowWhen(alt, Anytime)
	a, err := b.Step(alt, "rejects item")
	require.NoError(t, err)
	b.StepEvent(a, Of[enterName]())

	m, err := b.Build()
	require.NoError(t, err)
	user := m.UserActor()

	at := State{LatestStep: s, LatestFlow: s.Flow(), Actor: user}
	require.True(t, a.Predicate()(at))
	require.False(t, s.Predicate()(at), "interrupting step pre-empts the repeating step")

	at.WithoutAlternatives = true
	require.False(t, a.Predicate()(at))
	require.True(t, s.Predicate()(at))
}

// TestInterruptionGuardStaysWithinUseCase verifies that an interrupting
// flow suppresses only steps of its own use case.
func TestInterruptionGuardStaysWithinUseCase(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	first, err := b.UseCase("First")
	require.NoError(t, err)
	alt, err := b.Flow(first, "handles name")
	require.NoError(t, err)
	b.PlaceAnywhere(alt)
	b.FlowWhen(alt, Anytime)
	a, err := b.Step(alt, "F1")
	require.NoError(t, err)
	b.StepEvent(a, Of[enterName]())

	second, err := b.UseCase("Second")
	require.NoError(t, err)
	s, err := b.Step(second.BasicFlow(), "S1")
	require.NoError(t, err)
	b.StepEvent(s, Of[enterName]())

	m, err := b.Build()
	require.NoError(t, err)
	user := m.UserActor()

	require.True(t, a.Predicate()(State{Actor: user}))
	require.True(t, s.Predicate()(State{Actor: user}))
}
