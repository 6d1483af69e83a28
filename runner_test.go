package stride

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type EnterName struct{ Name string }

type DecideToQuit struct{}

type UnknownEvent struct{}

// greeterModel declares the "Get greeted" use case: an autonomous prompt,
// two user steps, an autonomous quit step, and an alternative flow that
// replaces the quit step and loops back to the start while noAlternative
// holds.
func greeterModel(t *testing.T, noAlternative Condition) *Model {
	t.Helper()
	model, err := NewModelBuilder().
		UseCase("Get greeted").
		BasicFlow().
		Step("S1").System(Ignore).
		Step("S2").User(Of[EnterName]()).System(Ignore).
		Step("S3").User(Of[DecideToQuit]()).System(Ignore).
		Step("S4").System(Ignore).
		Flow("alternative flow").InsteadOf("S4").When(noAlternative).
		Step("S6").ContinuesAt("S1").
		Build()
	require.NoError(t, err)
	return model
}

// TestGreeterLoopsWhileAlternativeHolds verifies that the interrupting
// alternative flow replaces the quit step and loops the use case back to
// its first step.
func TestGreeterLoopsWhileAlternativeHolds(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))
	require.NoError(t, runner.ReactTo(EnterName{Name: "Joe"}, DecideToQuit{}))

	assert.Equal(t, []string{"S1", "S2", "S3", "S6", "S1"}, runner.RecordedStepNames())
}

// TestGreeterQuitsWhenAlternativeDoesNotHold verifies that the basic flow
// runs to its autonomous quit step when the alternative's condition is
// false.
func TestGreeterQuitsWhenAlternativeDoesNotHold(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, func(State) bool { return false })

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))
	require.NoError(t, runner.ReactTo(EnterName{Name: "Joe"}, DecideToQuit{}))

	assert.Equal(t, []string{"S1", "S2", "S3", "S4"}, runner.RecordedStepNames())
}

// TestBatchedEventsEqualSingleEvents verifies that dispatching events in
// one call and dispatching them one call at a time record the same
// history.
func TestBatchedEventsEqualSingleEvents(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	batched := NewRunner().StartRecording()
	require.NoError(t, batched.Run(model))
	require.NoError(t, batched.ReactTo(EnterName{Name: "Joe"}, DecideToQuit{}))

	single := NewRunner().StartRecording()
	require.NoError(t, single.Run(model))
	require.NoError(t, single.ReactTo(EnterName{Name: "Joe"}))
	require.NoError(t, single.ReactTo(DecideToQuit{}))

	assert.Equal(t, batched.RecordedStepNames(), single.RecordedStepNames())
}

// TestUnmatchedEventIsDropped verifies that an event no step is declared
// on leaves history and dispatch position unchanged.
func TestUnmatchedEventIsDropped(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))

	latest := runner.LatestStep()
	require.NoError(t, runner.ReactTo(UnknownEvent{}))

	assert.Equal(t, []string{"S1"}, runner.RecordedStepNames())
	assert.Same(t, latest, runner.LatestStep())
}

func TestReactToBeforeRunFails(t *testing.T) {
	t.Parallel()

	err := NewRunner().ReactTo(EnterName{Name: "Joe"})
	assert.ErrorIs(t, err, ErrNotRunning)
}

// TestOnlyStartStepsEligibleInitially verifies that before anything ran,
// only steps of at-start or unconditional flows can react.
func TestOnlyStartStepsEligibleInitially(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	runner := NewRunner()
	require.NoError(t, runner.Run(model))

	// S1 already ran during Run; S2 follows it.
	assert.True(t, runner.CanReactTo(Of[EnterName]()))
	assert.False(t, runner.CanReactTo(Of[DecideToQuit]()))

	steps := runner.StepsThatCanReactTo(Of[EnterName]())
	require.Len(t, steps, 1)
	assert.Equal(t, "S2", steps[0].Name())
}

// TestRestartClearsPositionButKeepsRecording verifies that Restart brings
// the runner back to "nothing run" and re-fires the initial autonomous
// step, without discarding recorded history.
func TestRestartClearsPositionButKeepsRecording(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))
	require.NoError(t, runner.ReactTo(EnterName{Name: "Joe"}))

	require.NoError(t, runner.Restart())

	assert.Equal(t, []string{"S1", "S2", "S1"}, runner.RecordedStepNames())
	assert.Equal(t, "S1", runner.LatestStep().Name())
}

// TestStopRecording verifies that steps executed after StopRecording do
// not appear in history.
func TestStopRecording(t *testing.T) {
	t.Parallel()

	model := greeterModel(t, Anytime)

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))
	runner.StopRecording()
	require.NoError(t, runner.ReactTo(EnterName{Name: "Joe"}))

	assert.Equal(t, []string{"S1"}, runner.RecordedStepNames())
}

type placesOrder struct{}

// TestActorRestriction verifies that a step declared for a specific actor
// does not react for the default user actor.
func TestActorRestriction(t *testing.T) {
	t.Parallel()

	b := NewModelBuilder()
	customer := b.Actor("Customer")
	model, err := b.UseCase("Order").
		BasicFlow().
		Step("places order").As(customer).User(Of[placesOrder]()).System(Ignore).
		Build()
	require.NoError(t, err)

	runner := NewRunner().StartRecording()
	require.NoError(t, runner.Run(model))

	require.NoError(t, runner.ReactTo(placesOrder{}))
	assert.Empty(t, runner.RecordedStepNames(), "default user actor must not trigger the step")

	require.NoError(t, runner.As(customer).ReactTo(placesOrder{}))
	assert.Equal(t, []string{"places order"}, runner.RecordedStepNames())
}

type command interface{ isCommand() }

type startCommand struct{}

func (startCommand) isCommand() {}

type stopCommand struct{}

func (stopCommand) isCommand() {}

// TestInterfaceEventDispatch verifies that a step declared on an interface
// type reacts to every event whose dynamic type implements it.
func TestInterfaceEventDispatch(t *testing.T) {
	t.Parallel()

	var received []command
	model, err := NewModelBuilder().
		UseCase("Control").
		BasicFlow().
		Step("handles command").User(Of[command]()).System(Typed(func(c command) error {
			received = append(received, c)
			return nil
		})).ReactWhile(Anytime).
		Build()
	require.NoError(t, err)

	runner := NewRunner()
	require.NoError(t, runner.Run(model))
	require.NoError(t, runner.ReactTo(startCommand{}, stopCommand{}))

	assert.Equal(t, []command{startCommand{}, stopCommand{}}, received)
}
