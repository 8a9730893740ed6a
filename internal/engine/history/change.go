package history

// ChangeKind names what happened to a step.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeUndone
	ChangeRedone
)

// String returns the change name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeUndone:
		return "undone"
	case ChangeRedone:
		return "redone"
	default:
		return "unknown"
	}
}

// Change describes a completed AddStep, Undo or Redo.
type Change struct {
	Kind   ChangeKind
	StepID StepID
	// Head is the step at HEAD once the document has been replayed.
	Head StepID
}

// Listener is called after a change has been fully applied. It runs before
// the call returns, so it must not change the History.
type Listener func(Change)

func (h *History[P]) changed(kind ChangeKind, id StepID) {
	c := Change{Kind: kind, StepID: id, Head: h.head}
	for _, l := range h.notify {
		l(c)
	}
}
