package api

import (
	"fmt"
	"reflect"
)

// ModelBuilder is the low-level construction surface for models. It
// accumulates use cases, flows and steps, then validates references and
// yields one immutable Model in Build. The fluent builder in the stride
// root package drives this type; most applications use that instead.
//
// A ModelBuilder is not safe for concurrent use. After Build, all further
// mutations fail with ErrModelFrozen.
type ModelBuilder struct {
	model *Model
	built bool
	err   error
}

// NewModelBuilder creates an empty ModelBuilder with the built-in user and
// system actors already registered.
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{model: newModel()}
}

// Actor returns the named actor, creating it on first use.
func (b *ModelBuilder) Actor(name string) *Actor {
	return b.model.newActor(name)
}

// UserActor returns the model's built-in default user actor.
func (b *ModelBuilder) UserActor() *Actor { return b.model.userActor }

// SystemActor returns the model's built-in system actor.
func (b *ModelBuilder) SystemActor() *Actor { return b.model.systemActor }

// UseCase creates a new use case with a unique name.
func (b *ModelBuilder) UseCase(name string) (*UseCase, error) {
	if b.built {
		return nil, ErrModelFrozen
	}
	uc, err := b.model.newUseCase(name)
	if err != nil {
		b.fail(err)
		return nil, err
	}
	return uc, nil
}

// BasicFlow returns the use case's basic flow.
func (b *ModelBuilder) BasicFlow(uc *UseCase) *Flow {
	return uc.BasicFlow()
}

// Flow creates a new flow with a unique name within the use case.
func (b *ModelBuilder) Flow(uc *UseCase, name string) (*Flow, error) {
	if b.built {
		return nil, ErrModelFrozen
	}
	f, err := uc.newFlow(name)
	if err != nil {
		b.fail(err)
		return nil, err
	}
	return f, nil
}

// PlaceAtStart positions the flow at the very start.
func (b *ModelBuilder) PlaceAtStart(f *Flow) {
	b.place(f, AtStart, "")
}

// PlaceAfter positions the flow after the named step of its use case. The
// reference is resolved at Build time.
func (b *ModelBuilder) PlaceAfter(f *Flow, stepName string) {
	b.place(f, After, stepName)
}

// PlaceInsteadOf positions the flow as an alternative to the named step of
// its use case. The reference is resolved at Build time.
func (b *ModelBuilder) PlaceInsteadOf(f *Flow, stepName string) {
	b.place(f, InsteadOf, stepName)
}

// PlaceAnywhere removes the flow's positional constraint, making its first
// step eligible regardless of what ran before.
func (b *ModelBuilder) PlaceAnywhere(f *Flow) {
	b.place(f, Anywhere, "")
}

func (b *ModelBuilder) place(f *Flow, kind PositionKind, stepName string) {
	if b.frozen() {
		return
	}
	f.position.Kind = kind
	f.pendingPosStep = stepName
}

// FlowWhen sets the flow's entry condition.
func (b *ModelBuilder) FlowWhen(f *Flow, cond Condition) {
	if b.frozen() {
		return
	}
	f.when = cond
}

// Step creates a new step at the end of the flow. The step name must be
// unique within the flow's use case.
func (b *ModelBuilder) Step(f *Flow, name string) (*Step, error) {
	if b.built {
		return nil, ErrModelFrozen
	}
	s, err := f.useCase.newStep(f, name)
	if err != nil {
		b.fail(err)
		return nil, err
	}
	return s, nil
}

// StepEvent declares the step's input event type. Steps without a declared
// event type are autonomous.
func (b *ModelBuilder) StepEvent(s *Step, t reflect.Type) {
	if b.frozen() {
		return
	}
	s.eventType = t
}

// StepEventName overrides the display name used for the step's event type
// by the structural surface. Dispatch is unaffected.
func (b *ModelBuilder) StepEventName(s *Step, name string) {
	if b.frozen() {
		return
	}
	s.eventName = name
}

// StepActors declares which actors may trigger the step. Without an
// explicit actor set, user steps default to the user actor and autonomous
// steps to the system actor.
func (b *ModelBuilder) StepActors(s *Step, actors ...*Actor) {
	if b.frozen() {
		return
	}
	s.actors = append([]*Actor(nil), actors...)
}

// StepReaction sets the function the step executes when it reacts.
func (b *ModelBuilder) StepReaction(s *Step, r Reaction) {
	if b.frozen() {
		return
	}
	s.reaction = r
}

// StepReactWhile makes the step re-arm behind itself while the condition
// holds, so the same actor and event type keep being accepted.
func (b *ModelBuilder) StepReactWhile(s *Step, cond Condition) {
	if b.frozen() {
		return
	}
	s.reactWhile = cond
}

// StepContinuation turns the step into a continuation: after it executes,
// the runner's position moves relative to the named step of the same use
// case. The reference is resolved at Build time.
func (b *ModelBuilder) StepContinuation(s *Step, kind ContinuationKind, targetStepName string) {
	if b.frozen() {
		return
	}
	s.continuation = kind
	s.continuationName = targetStepName
}

// StepIncludes makes the step include the named use case: after the step
// executes, the included use case's basic flow runs to its end, then the
// including flow resumes after this step.
func (b *ModelBuilder) StepIncludes(s *Step, useCaseName string) {
	if b.frozen() {
		return
	}
	s.includedUseCaseName = useCaseName
}

// Build validates name references and yields the immutable model. It is
// an error to call Build twice, or to mutate the builder afterwards.
func (b *ModelBuilder) Build() (*Model, error) {
	if b.built {
		return nil, ErrModelFrozen
	}
	if b.err != nil {
		return nil, b.err
	}
	m := b.model

	for _, uc := range m.useCases {
		for _, f := range uc.flows {
			if f.pendingPosStep == "" {
				continue
			}
			target, err := uc.FindStep(f.pendingPosStep)
			if err != nil {
				return nil, fmt.Errorf("flow %q: %w", f.name, err)
			}
			f.position.Step = target
			f.pendingPosStep = ""
		}
	}

	for _, s := range m.steps {
		if s.continuationName != "" {
			target, err := s.useCase.FindStep(s.continuationName)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", s.name, err)
			}
			s.continuationStep = target
			s.continuationName = ""
		}
		if s.includedUseCaseName != "" {
			included, err := m.FindUseCase(s.includedUseCaseName)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", s.name, err)
			}
			if included == s.useCase {
				return nil, fmt.Errorf("step %q: use case cannot include itself", s.name)
			}
			s.includedUseCase = included
			s.includedUseCaseName = ""
		}
		if len(s.actors) == 0 {
			// A step with only a display event name is a user step for
			// documentation purposes, even though dispatch treats it as
			// autonomous.
			if s.eventType == nil && s.eventName == "" {
				s.actors = []*Actor{m.systemActor}
			} else {
				s.actors = []*Actor{m.userActor}
			}
		}
	}

	b.built = true
	m.frozen = true
	return m, nil
}

func (b *ModelBuilder) frozen() bool {
	if b.built {
		b.fail(ErrModelFrozen)
		return true
	}
	return false
}

func (b *ModelBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
