package extract

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	stride "github.com/jpelkone/stride"
	"github.com/jpelkone/stride/pkg/api"
)

type EnterName struct{ Name string }

func greeterModel(t *testing.T) *api.Model {
	t.Helper()
	model, err := stride.NewModelBuilder().
		UseCase("Get greeted").
		BasicFlow().
		Step("S1").System(stride.Ignore).
		Step("S2").User(stride.Of[EnterName]()).System(stride.Ignore).
		Step("S3").System(stride.Ignore).
		Flow("alternative flow").InsteadOf("S3").When(stride.Anytime).
		Step("S4").System(stride.Ignore).
		Build()
	require.NoError(t, err)
	return model
}

func TestExtractRendersUseCaseText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Extract(greeterModel(t), &buf))

	g := goldie.New(t)
	g.Assert(t, "greeter_model", buf.Bytes())
}

func TestExtractYAMLRoundTripsStructure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, ExtractYAML(greeterModel(t), &buf))

	var doc DocModel
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []string{"System", "User"}, doc.Actors)
	require.Len(t, doc.UseCases, 1)
	uc := doc.UseCases[0]
	assert.Equal(t, "Get greeted", uc.Name)
	require.Len(t, uc.Flows, 2)

	basic := uc.Flows[0]
	assert.Equal(t, api.BasicFlowName, basic.Name)
	assert.Equal(t, "at start", basic.Position)
	assert.False(t, basic.When)
	require.Len(t, basic.Steps, 3)
	assert.Equal(t, DocStep{Name: "S2", Actors: []string{"User"}, Event: "EnterName"}, basic.Steps[1])

	alt := uc.Flows[1]
	assert.Equal(t, "alternative flow", alt.Name)
	assert.Equal(t, "instead of S3", alt.Position)
	assert.True(t, alt.When)
	require.Len(t, alt.Steps, 1)
	assert.Equal(t, "S4", alt.Steps[0].Name)
}
