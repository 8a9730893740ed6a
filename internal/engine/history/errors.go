package history

import "errors"

// Errors returned by history operations.
var (
	// ErrStepNotFound indicates the step id is not part of the current timeline.
	ErrStepNotFound = errors.New("step not found")

	// ErrDuplicateStepID indicates a step id was already registered.
	ErrDuplicateStepID = errors.New("duplicate step id")

	// ErrRedoNotAvailable indicates the step was never undone or was already redone.
	ErrRedoNotAvailable = errors.New("redo not available")

	// ErrUndoNotAvailable indicates the step is currently cancelled, either
	// because it was already undone or because a rule made it inert.
	ErrUndoNotAvailable = errors.New("undo not available")

	// ErrEmptyStepID indicates an empty step id.
	ErrEmptyStepID = errors.New("empty step id")

	// ErrReentrantCall indicates a callback called back into the History.
	ErrReentrantCall = errors.New("reentrant history call")
)
