package stride

import (
	"fmt"
	"reflect"

	"github.com/jpelkone/stride/pkg/api"
)

// ModelBuilder provides the fluent API for declaring models:
//
//	model, err := stride.NewModelBuilder().
//	    UseCase("Get greeted").
//	    BasicFlow().
//	        Step("S1").System(greetUser).
//	        Step("S2").User(stride.Of[EntersName]()).System(saveName).
//	        Step("S3").System(greetByName).
//	    Build()
//
// Construction problems (duplicate names, dangling step references) are
// collected and reported once by Build; the chain itself never fails.
type ModelBuilder struct {
	mb *api.ModelBuilder
}

// NewModelBuilder creates an empty model builder with the built-in user and
// system actors already registered.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{mb: api.NewModelBuilder()}
}

// Actor returns the named actor, creating it on first use.
func (b *ModelBuilder) Actor(name string) *Actor {
	return b.mb.Actor(name)
}

// UserActor returns the model's built-in default user actor.
func (b *ModelBuilder) UserActor() *Actor { return b.mb.UserActor() }

// SystemActor returns the model's built-in system actor.
func (b *ModelBuilder) SystemActor() *Actor { return b.mb.SystemActor() }

// UseCase adds a use case with a unique name to the model.
func (b *ModelBuilder) UseCase(name string) *UseCasePart {
	uc, _ := b.mb.UseCase(name)
	return &UseCasePart{b: b, uc: uc}
}

// Build validates name references and yields the immutable model, or the
// first construction problem encountered along the chain.
func (b *ModelBuilder) Build() (*Model, error) {
	return b.mb.Build()
}

// UseCasePart declares the content of one use case.
type UseCasePart struct {
	b  *ModelBuilder
	uc *api.UseCase

	flowless int
}

// BasicFlow opens the use case's basic flow, positioned at the start.
func (p *UseCasePart) BasicFlow() *FlowPart {
	if p.uc == nil {
		return &FlowPart{uc: p}
	}
	return &FlowPart{uc: p, f: p.uc.BasicFlow()}
}

// Flow opens a new named flow of the use case. Position it with AtStart,
// After, InsteadOf or Anytime; without an explicit position the flow
// starts at the very beginning, like the basic flow.
func (p *UseCasePart) Flow(name string) *FlowPart {
	if p.uc == nil {
		return &FlowPart{uc: p}
	}
	f, _ := p.b.mb.Flow(p.uc, name)
	return &FlowPart{uc: p, f: f}
}

// Handles declares a standalone step that reacts to the event type t
// whenever it arrives, regardless of the dispatch position. The step is
// auto-named after the event type.
func (p *UseCasePart) Handles(t reflect.Type) *StepUserPart {
	p.flowless++
	name := fmt.Sprintf("handles %s", eventDisplayName(t))
	if p.flowless > 1 {
		name = fmt.Sprintf("%s (%d)", name, p.flowless)
	}
	fp := p.Flow(name).Anytime()
	return fp.Step(name).User(t)
}

func eventDisplayName(t reflect.Type) string {
	if t == nil {
		return "nothing"
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// FlowPart declares the position, entry condition and steps of one flow.
type FlowPart struct {
	uc *UseCasePart
	f  *api.Flow
}

// AtStart positions the flow at the very start: its first step is only
// eligible while no step has ever run.
func (p *FlowPart) AtStart() *FlowPart {
	if p.f != nil {
		p.uc.b.mb.PlaceAtStart(p.f)
	}
	return p
}

// After positions the flow behind the named step of the same use case.
func (p *FlowPart) After(stepName string) *FlowPart {
	if p.f != nil {
		p.uc.b.mb.PlaceAfter(p.f, stepName)
	}
	return p
}

// InsteadOf positions the flow as an alternative to the named step of the
// same use case: its first step is eligible exactly where that step would
// be, and takes precedence over it.
func (p *FlowPart) InsteadOf(stepName string) *FlowPart {
	if p.f != nil {
		p.uc.b.mb.PlaceInsteadOf(p.f, stepName)
	}
	return p
}

// Anytime removes the flow's positional constraint.
func (p *FlowPart) Anytime() *FlowPart {
	if p.f != nil {
		p.uc.b.mb.PlaceAnywhere(p.f)
	}
	return p
}

// When guards entry into the flow: the flow's first step is only eligible
// while the condition holds. A flow with a When condition interrupts the
// flow it is positioned in, the same way an InsteadOf flow does.
func (p *FlowPart) When(cond Condition) *FlowPart {
	if p.f != nil {
		p.uc.b.mb.FlowWhen(p.f, cond)
	}
	return p
}

// Step appends a named step to the flow. The name must be unique within
// the use case.
func (p *FlowPart) Step(name string) *StepPart {
	sp := &StepPart{fp: p}
	if p.f != nil {
		sp.s, _ = p.uc.b.mb.Step(p.f, name)
	}
	return sp
}
