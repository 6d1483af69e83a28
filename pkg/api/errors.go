package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModelFrozen is returned by builder operations attempted after Build.
var ErrModelFrozen = errors.New("model is frozen after Build")

// AmbiguousReactionError is returned when more than one step can react to
// the same event and neither interruption precedence nor declaration order
// within a single use case resolves the tie. This indicates a
// model-authoring defect, not a runtime condition to fall back from.
type AmbiguousReactionError struct {
	EventName string
	StepNames []string
}

func (e *AmbiguousReactionError) Error() string {
	return fmt.Sprintf("more than one step can react to %s: %s",
		e.EventName, strings.Join(e.StepNames, ", "))
}
