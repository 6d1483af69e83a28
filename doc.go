// Package stride is an embeddable use case engine for Go.
//
// Stride lets an application declare its behavior as use cases made of
// flows and steps, then run that model: incoming events are dispatched to
// the single step that is eligible in the current state, and the step's
// reaction runs. The model doubles as living documentation; the extract
// package renders it as plain text or YAML.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Model
//  2. ModelBuilder
//  3. Runner
//  4. Reaction
//  5. Observer
//
// # Model
//
// A Model is the immutable registry of use cases, flows, steps and actors.
// A use case has one basic flow and any number of alternative flows; a
// flow is an ordered sequence of steps. Each step declares the event type
// it reacts to (or none, making it autonomous), the actors allowed to
// trigger it, and a reaction function.
//
// Models are built once and are safe to share between any number of
// runners.
//
// # ModelBuilder
//
// ModelBuilder is the fluent declaration surface:
//
//	model, err := stride.NewModelBuilder().
//	    UseCase("Get greeted").
//	    BasicFlow().
//	        Step("S1").System(greetUser).
//	        Step("S2").User(stride.Of[EntersName]()).System(saveName).
//	        Step("S3").System(greetByName).
//	    Build()
//
// Alternative flows attach to positions in other flows (After, InsteadOf)
// and may carry entry conditions (When). Steps can repeat (ReactWhile),
// jump (ContinuesAt and friends) and include other use cases
// (IncludesUseCase).
//
// # Runner
//
// A Runner is one independent session over a model. It tracks the dispatch
// position, the acting actor and an optional recording of executed step
// names:
//
//	runner := stride.NewRunner()
//	if err := runner.Run(model); err != nil { ... }
//	if err := runner.ReactTo(EntersName{Name: "Ada"}); err != nil { ... }
//
// Events that no eligible step is declared on are dropped silently. A
// reaction returning an error is re-dispatched as an event, so a step
// declared on the error's type can handle it; unhandled errors propagate
// to the ReactTo caller.
//
// # Observer
//
// Observers receive dispatch callbacks for logging and metrics. The
// built-in LoggingObserver logs through log/slog, BasicMetrics counts
// executed steps and dropped events, and NewCompositeObserver combines
// several observers. Runners can additionally persist a step trace to
// memory or SQLite via WithTraceStore.
package stride
