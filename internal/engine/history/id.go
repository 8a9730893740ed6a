package history

import "github.com/google/uuid"

// NewStepID returns a fresh random step id.
func NewStepID() StepID {
	return StepID(uuid.NewString())
}
