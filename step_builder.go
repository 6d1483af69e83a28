package stride

import (
	"reflect"

	"github.com/jpelkone/stride/pkg/api"
)

// StepPart declares one step of a flow: who triggers it, which event it
// reacts to, and what it does.
type StepPart struct {
	fp *FlowPart
	s  *api.Step
}

func (p *StepPart) mb() *api.ModelBuilder { return p.fp.uc.b.mb }

// As restricts the step to the given actors. Without As, user steps
// default to the model's user actor and autonomous steps to the system
// actor.
func (p *StepPart) As(actors ...*Actor) *StepPart {
	if p.s != nil {
		p.mb().StepActors(p.s, actors...)
	}
	return p
}

// User declares the event type the step reacts to when dispatched by the
// acting user.
func (p *StepPart) User(t reflect.Type) *StepUserPart {
	if p.s != nil {
		p.mb().StepEvent(p.s, t)
	}
	return &StepUserPart{sp: p}
}

// On declares the event type the step reacts to. It reads better than User
// for events published by other parts of the system.
func (p *StepPart) On(t reflect.Type) *StepUserPart {
	return p.User(t)
}

// System makes the step autonomous: it runs the reaction on the engine's
// own completion signal, without waiting for an event.
func (p *StepPart) System(r Reaction) *StepSystemPart {
	if p.s != nil {
		p.mb().StepReaction(p.s, r)
	}
	return &StepSystemPart{sp: p}
}

// ContinuesAt makes the step move the dispatch position to the named step
// of the same use case. Alternative flows starting at the target may be
// entered.
func (p *StepPart) ContinuesAt(stepName string) *StepSystemPart {
	return p.continues(api.ContinueAt, stepName)
}

// ContinuesAfter makes the step move the dispatch position behind the
// named step of the same use case.
func (p *StepPart) ContinuesAfter(stepName string) *StepSystemPart {
	return p.continues(api.ContinueAfter, stepName)
}

// ContinuesWithoutAlternativeAt makes the step move the dispatch position
// to the named step of the same use case, bypassing any alternative flow
// starting there for the next reaction.
func (p *StepPart) ContinuesWithoutAlternativeAt(stepName string) *StepSystemPart {
	return p.continues(api.ContinueWithoutAlternativeAt, stepName)
}

func (p *StepPart) continues(kind api.ContinuationKind, stepName string) *StepSystemPart {
	if p.s != nil {
		p.mb().StepContinuation(p.s, kind, stepName)
	}
	return &StepSystemPart{sp: p}
}

// IncludesUseCase makes the step run the named use case's flows to
// completion before its own flow resumes.
func (p *StepPart) IncludesUseCase(useCaseName string) *StepSystemPart {
	if p.s != nil {
		p.mb().StepIncludes(p.s, useCaseName)
	}
	return &StepSystemPart{sp: p}
}

// StepUserPart declares what happens after the step's event arrived.
type StepUserPart struct {
	sp *StepPart
}

// System sets the reaction that runs when the step's event is dispatched
// to it. Use stride.Ignore for steps that consume their event and do
// nothing else.
func (p *StepUserPart) System(r Reaction) *StepSystemPart {
	if p.sp.s != nil {
		p.sp.mb().StepReaction(p.sp.s, r)
	}
	return &StepSystemPart{sp: p.sp}
}

// ContinuesAt makes the step, once its event arrived, move the dispatch
// position to the named step of the same use case.
func (p *StepUserPart) ContinuesAt(stepName string) *StepSystemPart {
	return p.sp.continues(api.ContinueAt, stepName)
}

// ContinuesAfter makes the step, once its event arrived, move the dispatch
// position behind the named step of the same use case.
func (p *StepUserPart) ContinuesAfter(stepName string) *StepSystemPart {
	return p.sp.continues(api.ContinueAfter, stepName)
}

// ContinuesWithoutAlternativeAt makes the step, once its event arrived,
// move the dispatch position to the named step bypassing alternatives.
func (p *StepUserPart) ContinuesWithoutAlternativeAt(stepName string) *StepSystemPart {
	return p.sp.continues(api.ContinueWithoutAlternativeAt, stepName)
}

// IncludesUseCase makes the step, once its event arrived, run the named
// use case's flows to completion before its own flow resumes.
func (p *StepUserPart) IncludesUseCase(useCaseName string) *StepSystemPart {
	if p.sp.s != nil {
		p.sp.mb().StepIncludes(p.sp.s, useCaseName)
	}
	return &StepSystemPart{sp: p.sp}
}

// StepSystemPart closes a step declaration and continues the chain.
type StepSystemPart struct {
	sp *StepPart
}

// ReactWhile makes the step repeat: as long as the condition holds after
// the step ran, the same event type is accepted by the same step again.
func (p *StepSystemPart) ReactWhile(cond Condition) *StepSystemPart {
	if p.sp.s != nil {
		p.sp.mb().StepReactWhile(p.sp.s, cond)
	}
	return p
}

// Step appends the next step to the same flow.
func (p *StepSystemPart) Step(name string) *StepPart {
	return p.sp.fp.Step(name)
}

// Flow opens a new named flow of the same use case.
func (p *StepSystemPart) Flow(name string) *FlowPart {
	return p.sp.fp.uc.Flow(name)
}

// UseCase adds another use case to the model.
func (p *StepSystemPart) UseCase(name string) *UseCasePart {
	return p.sp.fp.uc.b.UseCase(name)
}

// Build validates name references and yields the immutable model.
func (p *StepSystemPart) Build() (*Model, error) {
	return p.sp.fp.uc.b.Build()
}
