// Package modelfile loads models from YAML declarations. The file names
// use cases, flows and steps; events, reactions and conditions are bound
// by name to Go values supplied by the caller. This keeps the model's
// shape editable without recompiling, while the behavior stays in code.
package modelfile

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/jpelkone/stride/pkg/api"
)

// File is the top-level YAML document.
type File struct {
	Actors   []string     `yaml:"actors"`
	UseCases []UseCaseDef `yaml:"useCases"`
}

// UseCaseDef declares one use case and its flows.
type UseCaseDef struct {
	Name  string    `yaml:"useCase"`
	Flows []FlowDef `yaml:"flows"`
}

// FlowDef declares one flow. At most one of AtStart, After, InsteadOf and
// Anytime may be set; without any, the flow starts at the very beginning.
type FlowDef struct {
	Name      string `yaml:"flow"`
	AtStart   bool   `yaml:"atStart"`
	After     string `yaml:"after"`
	InsteadOf string `yaml:"insteadOf"`
	Anytime   bool   `yaml:"anytime"`

	// When names a bound condition guarding entry into the flow.
	When string `yaml:"when"`

	Steps []StepDef `yaml:"steps"`
}

// StepDef declares one step. User names a bound event type; System names a
// bound reaction. A step without User is autonomous.
type StepDef struct {
	Name       string   `yaml:"step"`
	As         []string `yaml:"as"`
	User       string   `yaml:"user"`
	System     string   `yaml:"system"`
	ReactWhile string   `yaml:"reactWhile"`

	ContinuesAt                   string `yaml:"continuesAt"`
	ContinuesAfter                string `yaml:"continuesAfter"`
	ContinuesWithoutAlternativeAt string `yaml:"continuesWithoutAlternativeAt"`
	IncludesUseCase               string `yaml:"includesUseCase"`
}

// Bindings maps the names used in a model file to Go values.
type Bindings struct {
	Events     map[string]reflect.Type
	Reactions  map[string]api.Reaction
	Conditions map[string]api.Condition
}

// Option configures loading.
type Option func(*loader)

// AllowUnbound makes loading tolerate names without a binding: unbound
// events become display names, unbound reactions do nothing, unbound
// conditions always hold. Such a model documents behavior; running it is
// not meaningful because steps with unbound events dispatch as autonomous
// steps.
func AllowUnbound() Option {
	return func(l *loader) { l.allowUnbound = true }
}

type loader struct {
	bindings     Bindings
	allowUnbound bool
}

// Load reads a YAML model declaration from r and builds the model with the
// given bindings.
func Load(r io.Reader, bindings Bindings, opts ...Option) (*api.Model, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}
	l := &loader{bindings: bindings}
	for _, opt := range opts {
		opt(l)
	}
	return l.build(&file)
}

// LoadFile is Load for a file on disk.
func LoadFile(path string, bindings Bindings, opts ...Option) (*api.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, bindings, opts...)
}

func (l *loader) build(file *File) (*api.Model, error) {
	b := api.NewModelBuilder()
	for _, name := range file.Actors {
		b.Actor(name)
	}
	for _, ucDef := range file.UseCases {
		uc, err := b.UseCase(ucDef.Name)
		if err != nil {
			return nil, err
		}
		for _, flowDef := range ucDef.Flows {
			if err := l.buildFlow(b, uc, flowDef); err != nil {
				return nil, fmt.Errorf("use case %q: %w", ucDef.Name, err)
			}
		}
	}
	return b.Build()
}

func (l *loader) buildFlow(b *api.ModelBuilder, uc *api.UseCase, def FlowDef) error {
	var f *api.Flow
	var err error
	if def.Name == api.BasicFlowName || def.Name == "" {
		f = uc.BasicFlow()
	} else if f, err = b.Flow(uc, def.Name); err != nil {
		return err
	}

	switch {
	case def.AtStart:
		b.PlaceAtStart(f)
	case def.After != "":
		b.PlaceAfter(f, def.After)
	case def.InsteadOf != "":
		b.PlaceInsteadOf(f, def.InsteadOf)
	case def.Anytime:
		b.PlaceAnywhere(f)
	}

	if def.When != "" {
		cond, err := l.condition(def.When)
		if err != nil {
			return fmt.Errorf("flow %q: %w", def.Name, err)
		}
		b.FlowWhen(f, cond)
	}

	for _, stepDef := range def.Steps {
		if err := l.buildStep(b, f, stepDef); err != nil {
			return fmt.Errorf("flow %q: %w", def.Name, err)
		}
	}
	return nil
}

func (l *loader) buildStep(b *api.ModelBuilder, f *api.Flow, def StepDef) error {
	s, err := b.Step(f, def.Name)
	if err != nil {
		return err
	}

	if def.User != "" {
		t, ok := l.bindings.Events[def.User]
		switch {
		case ok:
			b.StepEvent(s, t)
		case l.allowUnbound:
			b.StepEventName(s, def.User)
		default:
			return fmt.Errorf("step %q: no event bound for %q", def.Name, def.User)
		}
	}

	if def.System != "" {
		r, ok := l.bindings.Reactions[def.System]
		if !ok && !l.allowUnbound {
			return fmt.Errorf("step %q: no reaction bound for %q", def.Name, def.System)
		}
		if ok {
			b.StepReaction(s, r)
		}
	}

	if def.ReactWhile != "" {
		cond, err := l.condition(def.ReactWhile)
		if err != nil {
			return fmt.Errorf("step %q: %w", def.Name, err)
		}
		b.StepReactWhile(s, cond)
	}

	if len(def.As) > 0 {
		actors := make([]*api.Actor, len(def.As))
		for i, name := range def.As {
			actors[i] = b.Actor(name)
		}
		b.StepActors(s, actors...)
	}

	switch {
	case def.ContinuesAt != "":
		b.StepContinuation(s, api.ContinueAt, def.ContinuesAt)
	case def.ContinuesAfter != "":
		b.StepContinuation(s, api.ContinueAfter, def.ContinuesAfter)
	case def.ContinuesWithoutAlternativeAt != "":
		b.StepContinuation(s, api.ContinueWithoutAlternativeAt, def.ContinuesWithoutAlternativeAt)
	}
	if def.IncludesUseCase != "" {
		b.StepIncludes(s, def.IncludesUseCase)
	}
	return nil
}

func (l *loader) condition(name string) (api.Condition, error) {
	cond, ok := l.bindings.Conditions[name]
	if ok {
		return cond, nil
	}
	if l.allowUnbound {
		return api.Anytime, nil
	}
	return nil, fmt.Errorf("no condition bound for %q", name)
}
