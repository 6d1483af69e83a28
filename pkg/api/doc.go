// Package api contains the core building blocks of the stride use-case
// engine: the immutable model entities (Actor, UseCase, Flow, Step, Model),
// the predicate algebra that decides step eligibility, and the observer
// surface.
//
// Most users interact with the higher-level stride package, which provides
// the fluent construction surface and re-exports selected types from this
// package. The api package is intended for advanced integrations, such as
// alternative construction front-ends or documentation extractors.
//
// # Model
//
// A Model is the fully-linked registry of all use cases, flows and steps.
// It is produced once by a ModelBuilder and immutable afterwards, so it can
// be shared read-only between any number of runners.
//
// # Steps and eligibility
//
// A Step declares an input event type (nil for autonomous steps), an actor
// set, and a reaction. Its eligibility predicate is derived, never written
// by hand: flow reachability, the flow's entry condition, actor membership,
// and the interruption guard compose into a single Condition over runner
// State. Conditions receive the runner state as an explicit value, which
// keeps them independently testable.
//
// # Events
//
// Events are plain Go values. A step declares the events it reacts to with
// a type token obtained from Of[T]; declaring an interface type makes the
// step react to every event whose dynamic type implements it. Reaction
// failures are ordinary error values and dispatch through the same
// mechanism, with Of[error] as the universal failure type.
package api
