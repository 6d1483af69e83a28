package api

import (
	"fmt"
	"sort"
)

// Default actor names. Every model owns one actor for each: the user actor
// is the implicit trigger of user steps, the system actor is the implicit
// trigger of autonomous steps.
const (
	UserActorName   = "User"
	SystemActorName = "System"
)

// Actor is a named identity (or user group) that is permitted to trigger
// certain steps. Actors are owned by the Model and referenced by Steps.
type Actor struct {
	name  string
	model *Model
}

// Name returns the actor's unique name within its model.
func (a *Actor) Name() string { return a.name }

func (a *Actor) String() string { return a.name }

// Model is the immutable, fully-linked registry of use cases, flows, steps
// and actors. A Model is produced once by a ModelBuilder and is safe to
// share read-only between any number of concurrently operating runners.
type Model struct {
	useCases    []*UseCase
	useCaseByName map[string]*UseCase
	actors      map[string]*Actor
	userActor   *Actor
	systemActor *Actor

	// steps holds every step of every use case in declaration order.
	// Declaration order is the deterministic tie-break order for dispatch.
	steps []*Step

	frozen bool
}

func newModel() *Model {
	m := &Model{
		useCaseByName: make(map[string]*UseCase),
		actors:        make(map[string]*Actor),
	}
	m.userActor = m.newActor(UserActorName)
	m.systemActor = m.newActor(SystemActorName)
	return m
}

func (m *Model) newActor(name string) *Actor {
	if a, ok := m.actors[name]; ok {
		return a
	}
	a := &Actor{name: name, model: m}
	m.actors[name] = a
	return a
}

func (m *Model) newUseCase(name string) (*UseCase, error) {
	if _, exists := m.useCaseByName[name]; exists {
		return nil, fmt.Errorf("use case already in model: %s", name)
	}
	uc := &UseCase{name: name, model: m, flowByName: make(map[string]*Flow), stepByName: make(map[string]*Step)}
	m.useCases = append(m.useCases, uc)
	m.useCaseByName[name] = uc
	return uc, nil
}

// UseCases returns the model's use cases in declaration order.
func (m *Model) UseCases() []*UseCase {
	out := make([]*UseCase, len(m.useCases))
	copy(out, m.useCases)
	return out
}

// FindUseCase returns the named use case, or an error if the model does not
// contain it.
func (m *Model) FindUseCase(name string) (*UseCase, error) {
	uc, ok := m.useCaseByName[name]
	if !ok {
		return nil, fmt.Errorf("use case not found in model: %s", name)
	}
	return uc, nil
}

// Actors returns all actors of the model, sorted by name.
func (m *Model) Actors() []*Actor {
	out := make([]*Actor, 0, len(m.actors))
	for _, a := range m.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// FindActor returns the named actor, or an error if the model does not
// contain it.
func (m *Model) FindActor(name string) (*Actor, error) {
	a, ok := m.actors[name]
	if !ok {
		return nil, fmt.Errorf("actor not found in model: %s", name)
	}
	return a, nil
}

// UserActor returns the model's built-in default user actor.
func (m *Model) UserActor() *Actor { return m.userActor }

// SystemActor returns the model's built-in system actor. Autonomous steps
// run on behalf of the system actor; it is implicitly part of every
// runner's acting context.
func (m *Model) SystemActor() *Actor { return m.systemActor }

// Steps returns every step of every use case in declaration order.
func (m *Model) Steps() []*Step {
	out := make([]*Step, len(m.steps))
	copy(out, m.steps)
	return out
}
