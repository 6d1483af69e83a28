package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpelkone/stride/internal/persistence"
	"github.com/jpelkone/stride/pkg/api"
)

type enterName struct{ Name string }

func twoStepModel(t *testing.T) *api.Model {
	t.Helper()

	b := api.NewModelBuilder()
	uc, err := b.UseCase("Get greeted")
	require.NoError(t, err)
	basic := uc.BasicFlow()
	_, err = b.Step(basic, "S1")
	require.NoError(t, err)
	s2, err := b.Step(basic, "S2")
	require.NoError(t, err)
	b.StepEvent(s2, api.Of[enterName]())
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestWithIDOverridesGeneratedID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fixed", New(WithID("fixed")).ID())
	assert.NotEmpty(t, New().ID())
}

func TestRunnerReportsRunningState(t *testing.T) {
	t.Parallel()

	r := New()
	assert.False(t, r.IsRunning())
	require.NoError(t, r.Run(twoStepModel(t)))
	assert.True(t, r.IsRunning())
}

// TestTraceStoreReceivesExecutedSteps verifies that every executed step is
// appended as one trace entry, in order, under the runner's ID.
func TestTraceStoreReceivesExecutedSteps(t *testing.T) {
	t.Parallel()

	store := persistence.NewMemoryTraceStore()
	r := New(WithID("r1"), WithTraceStore(store))

	require.NoError(t, r.Run(twoStepModel(t)))
	require.NoError(t, r.ReactTo(enterName{Name: "Joe"}))

	entries, err := store.List(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "S1", entries[0].Step)
	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, "Get greeted", entries[0].UseCase)
	assert.Equal(t, api.BasicFlowName, entries[0].Flow)
	assert.Empty(t, entries[0].Event)

	assert.Equal(t, "S2", entries[1].Step)
	assert.Equal(t, int64(2), entries[1].Seq)
	assert.Equal(t, "enterName", entries[1].Event)
}

// TestObserverCallbacks verifies the observer sees run start, executed
// steps and dropped events.
func TestObserverCallbacks(t *testing.T) {
	t.Parallel()

	metrics := &api.BasicMetrics{}
	r := New(WithObserver(metrics))

	require.NoError(t, r.Run(twoStepModel(t)))
	require.NoError(t, r.ReactTo(enterName{Name: "Joe"}))
	require.NoError(t, r.ReactTo("no step wants a string"))

	snap := metrics.Snapshot()
	assert.EqualValues(t, 2, snap.StepsExecuted)
	assert.EqualValues(t, 1, snap.EventsDropped)
}

func TestNilEventIsDropped(t *testing.T) {
	t.Parallel()

	metrics := &api.BasicMetrics{}
	r := New(WithObserver(metrics))
	require.NoError(t, r.Run(twoStepModel(t)))

	require.NoError(t, r.ReactTo(nil))
	assert.EqualValues(t, 1, metrics.Snapshot().EventsDropped)
}

func TestStateSnapshot(t *testing.T) {
	t.Parallel()

	r := New()
	m := twoStepModel(t)
	require.NoError(t, r.Run(m))

	state := r.State()
	require.NotNil(t, state.LatestStep)
	assert.Equal(t, "S1", state.LatestStep.Name())
	assert.Same(t, m.UserActor(), state.Actor)
	assert.False(t, state.WithoutAlternatives)
}
