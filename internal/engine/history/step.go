package history

// StepID identifies a step. Ids are unique across a History forever, even
// after the layer holding the step is superseded.
type StepID string

// Step is an immutable edit record.
type Step[P any] struct {
	id      StepID
	payload P
	inert   bool
}

// NewStep creates a step.
func NewStep[P any](id StepID, payload P) Step[P] {
	return Step[P]{id: id, payload: payload}
}

// ID returns the step id.
func (s Step[P]) ID() StepID {
	return s.id
}

// Payload returns the step payload. For an inert step this is the last payload
// the step carried before a transformation cancelled it.
func (s Step[P]) Payload() P {
	return s.payload
}

// Inert reports whether a transformation cancelled the step. Inert steps keep
// their slot in the timeline but are never applied or reverted.
func (s Step[P]) Inert() bool {
	return s.inert
}

// Transformed returns a copy of the step with fn applied to its payload.
// An inert step stays inert and fn is not called.
func (s Step[P]) Transformed(fn Transformation[P]) Step[P] {
	if s.inert {
		return s
	}
	payload, ok := fn(s.payload)
	if !ok {
		return Step[P]{id: s.id, payload: s.payload, inert: true}
	}
	return Step[P]{id: s.id, payload: payload}
}
