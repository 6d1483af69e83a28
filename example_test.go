package stride_test

import (
	"fmt"
	"log"

	"github.com/jpelkone/stride"
)

type enterName struct{ Name string }

// Example_modelBuilder demonstrates declaring a small use case model with
// the fluent builder and dispatching an event to a runner.
func Example_modelBuilder() {
	model, err := stride.NewModelBuilder().
		UseCase("Get greeted").
		BasicFlow().
		Step("asks for name").System(askForName).
		Step("greets user").User(stride.Of[enterName]()).System(stride.Typed(greet)).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	runner := stride.NewRunner()
	if err := runner.Run(model); err != nil {
		log.Fatal(err)
	}
	if err := runner.ReactTo(enterName{Name: "Gopher"}); err != nil {
		log.Fatal(err)
	}

	// Output:
	// What is your name?
	// Hello, Gopher.
}

// Example_recording demonstrates recording the names of executed steps,
// for instance to assert a scenario in a test.
func Example_recording() {
	model, err := stride.NewModelBuilder().
		UseCase("Get greeted").
		BasicFlow().
		Step("asks for name").System(stride.Ignore).
		Step("saves name").User(stride.Of[enterName]()).System(stride.Ignore).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	runner := stride.NewRunner().StartRecording()
	if err := runner.Run(model); err != nil {
		log.Fatal(err)
	}
	if err := runner.ReactTo(enterName{Name: "Gopher"}); err != nil {
		log.Fatal(err)
	}

	fmt.Println(runner.RecordedStepNames())

	// Output:
	// [asks for name saves name]
}

func askForName(any) error {
	fmt.Println("What is your name?")
	return nil
}

func greet(e enterName) error {
	fmt.Printf("Hello, %s.\n", e.Name)
	return nil
}
