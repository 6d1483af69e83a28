package api

import "fmt"

// BasicFlowName is the name of the flow every use case starts out with.
const BasicFlowName = "basic flow"

// UseCase is a named, goal-oriented collection of flows. Step names are
// unique within a use case, across all of its flows.
type UseCase struct {
	name  string
	model *Model

	flows      []*Flow
	flowByName map[string]*Flow
	stepByName map[string]*Step
}

// Name returns the use case's unique name within its model.
func (u *UseCase) Name() string { return u.name }

func (u *UseCase) String() string { return u.name }

// Model returns the model that owns this use case.
func (u *UseCase) Model() *Model { return u.model }

// Flows returns the use case's flows in declaration order. The basic flow
// is always first.
func (u *UseCase) Flows() []*Flow {
	out := make([]*Flow, len(u.flows))
	copy(out, u.flows)
	return out
}

// BasicFlow returns the use case's basic flow, creating it on first access
// during construction.
func (u *UseCase) BasicFlow() *Flow {
	if f, ok := u.flowByName[BasicFlowName]; ok {
		return f
	}
	f, _ := u.newFlow(BasicFlowName)
	return f
}

// FindFlow returns the named flow of this use case.
func (u *UseCase) FindFlow(name string) (*Flow, error) {
	f, ok := u.flowByName[name]
	if !ok {
		return nil, fmt.Errorf("flow not found in use case %q: %s", u.name, name)
	}
	return f, nil
}

// FindStep returns the named step of this use case.
func (u *UseCase) FindStep(name string) (*Step, error) {
	s, ok := u.stepByName[name]
	if !ok {
		return nil, fmt.Errorf("step not found in use case %q: %s", u.name, name)
	}
	return s, nil
}

// Steps returns all steps of the use case in declaration order.
func (u *UseCase) Steps() []*Step {
	var out []*Step
	for _, s := range u.model.steps {
		if s.useCase == u {
			out = append(out, s)
		}
	}
	return out
}

func (u *UseCase) newFlow(name string) (*Flow, error) {
	if _, exists := u.flowByName[name]; exists {
		return nil, fmt.Errorf("flow already in use case %q: %s", u.name, name)
	}
	// Without an explicit position a flow starts at the very beginning,
	// like a use case's basic flow.
	f := &Flow{name: name, useCase: u, position: FlowPosition{Kind: AtStart}}
	u.flows = append(u.flows, f)
	u.flowByName[name] = f
	return f, nil
}

func (u *UseCase) newStep(flow *Flow, name string) (*Step, error) {
	if _, exists := u.stepByName[name]; exists {
		return nil, fmt.Errorf("step already in use case %q: %s", u.name, name)
	}
	s := &Step{
		name:       name,
		useCase:    u,
		flow:       flow,
		modelIndex: len(u.model.steps),
	}
	if n := len(flow.steps); n > 0 {
		s.previous = flow.steps[n-1]
	}
	flow.steps = append(flow.steps, s)
	u.stepByName[name] = s
	u.model.steps = append(u.model.steps, s)
	return s, nil
}

// Flow is a named, ordered sequence of steps inside one use case, gated by
// a flow position (at start, after a step, instead of a step, or anytime)
// and an optional entry condition.
type Flow struct {
	name    string
	useCase *UseCase
	steps   []*Step

	position       FlowPosition
	pendingPosStep string // unresolved until Build
	when           Condition
}

// Name returns the flow's unique name within its use case.
func (f *Flow) Name() string { return f.name }

func (f *Flow) String() string { return f.useCase.name + "/" + f.name }

// UseCase returns the use case this flow belongs to.
func (f *Flow) UseCase() *UseCase { return f.useCase }

// Steps returns the flow's steps in order.
func (f *Flow) Steps() []*Step {
	out := make([]*Step, len(f.steps))
	copy(out, f.steps)
	return out
}

// FirstStep returns the flow's first step, or nil for an empty flow.
func (f *Flow) FirstStep() *Step {
	if len(f.steps) == 0 {
		return nil
	}
	return f.steps[0]
}

// LastStep returns the flow's last step, or nil for an empty flow.
func (f *Flow) LastStep() *Step {
	if len(f.steps) == 0 {
		return nil
	}
	return f.steps[len(f.steps)-1]
}

// Position returns the flow's position specification.
func (f *Flow) Position() FlowPosition { return f.position }

// When returns the flow's entry condition, or nil if it has none.
func (f *Flow) When() Condition { return f.when }

// Interrupting reports whether this flow pre-empts another flow's
// continuation: it is positioned instead of a step, or it carries an entry
// condition against a point in another flow. The first step of an
// interrupting flow wins over the continuation of the flow it interrupts.
func (f *Flow) Interrupting() bool {
	return f.position.Kind == InsteadOf || f.when != nil
}
