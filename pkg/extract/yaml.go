package extract

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jpelkone/stride/pkg/api"
)

// Doc types mirror the model's structure for serialization. Reactions and
// conditions are functions and cannot round-trip; conditions are exported
// as flags, reactions are dropped.

type DocModel struct {
	Actors   []string     `yaml:"actors,omitempty"`
	UseCases []DocUseCase `yaml:"useCases"`
}

type DocUseCase struct {
	Name  string    `yaml:"useCase"`
	Flows []DocFlow `yaml:"flows"`
}

type DocFlow struct {
	Name     string    `yaml:"flow"`
	Position string    `yaml:"position,omitempty"`
	When     bool      `yaml:"when,omitempty"`
	Steps    []DocStep `yaml:"steps"`
}

type DocStep struct {
	Name       string   `yaml:"step"`
	Actors     []string `yaml:"actors,omitempty"`
	Event      string   `yaml:"event,omitempty"`
	ReactWhile bool     `yaml:"reactWhile,omitempty"`
	Continues  string   `yaml:"continues,omitempty"`
	Includes   string   `yaml:"includes,omitempty"`
}

// ExtractYAML writes the model as a YAML document to w.
func ExtractYAML(m *api.Model, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(docModel(m))
}

func docModel(m *api.Model) DocModel {
	doc := DocModel{}
	for _, a := range m.Actors() {
		doc.Actors = append(doc.Actors, a.Name())
	}
	for _, uc := range m.UseCases() {
		ducs := DocUseCase{Name: uc.Name()}
		for _, f := range uc.Flows() {
			df := DocFlow{
				Name:     f.Name(),
				Position: f.Position().String(),
				When:     f.When() != nil,
			}
			for _, s := range f.Steps() {
				df.Steps = append(df.Steps, docStep(s))
			}
			ducs.Flows = append(ducs.Flows, df)
		}
		doc.UseCases = append(doc.UseCases, ducs)
	}
	return doc
}

func docStep(s *api.Step) DocStep {
	ds := DocStep{
		Name:       s.Name(),
		Event:      s.EventName(),
		ReactWhile: s.ReactWhile() != nil,
	}
	for _, a := range s.Actors() {
		ds.Actors = append(ds.Actors, a.Name())
	}
	if kind, target := s.Continuation(); kind != api.ContinueNone {
		switch kind {
		case api.ContinueAt:
			ds.Continues = "at " + target.Name()
		case api.ContinueAfter:
			ds.Continues = "after " + target.Name()
		case api.ContinueWithoutAlternativeAt:
			ds.Continues = "without alternative at " + target.Name()
		}
	}
	if inc := s.IncludedUseCase(); inc != nil {
		ds.Includes = inc.Name()
	}
	return ds
}
