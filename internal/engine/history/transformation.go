package history

// Transformation rebases a payload. It returns false when the payload has no
// meaning anymore; the step is then cancelled in the rebased timeline.
type Transformation[P any] func(payload P) (P, bool)

// TransformationFactory builds the rebasing functions used by Undo and Redo.
type TransformationFactory[P any] interface {
	// Without returns a transformation that rebases a payload as if reference
	// had never been applied.
	Without(reference P) Transformation[P]

	// With returns a transformation that rebases a payload as if reference
	// had just been applied again.
	With(reference P) Transformation[P]
}

// ApplyFunc applies a payload to the document.
type ApplyFunc[P any] func(payload P)

// RevertFunc is the exact inverse of the ApplyFunc for the same payload.
type RevertFunc[P any] func(payload P)
