package history

import "fmt"

// History records steps applied to a document and lets any of them be undone
// or redone out of order.
//
// History owns the whole layer graph. It is not safe for concurrent use.
type History[P any] struct {
	apply   ApplyFunc[P]
	revert  RevertFunc[P]
	factory TransformationFactory[P]
	logger  Logger
	notify  []Listener

	root      *Layer[P]
	headLayer *Layer[P]
	head      StepID

	ids     map[StepID]struct{}
	running bool
}

// New creates an empty History. All three collaborators are required.
func New[P any](apply ApplyFunc[P], revert RevertFunc[P], factory TransformationFactory[P], opts ...Option) *History[P] {
	if apply == nil || revert == nil || factory == nil {
		panic("history: apply, revert and factory are required")
	}
	o := options{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	root := NewLayer[P]()
	return &History[P]{
		apply:     apply,
		revert:    revert,
		factory:   factory,
		logger:    o.logger,
		notify:    o.listeners,
		root:      root,
		headLayer: root,
		ids:       make(map[StepID]struct{}),
	}
}

// AddStep appends a step at HEAD and applies it.
func (h *History[P]) AddStep(id StepID, payload P) error {
	if err := h.enter(); err != nil {
		return err
	}
	defer h.leave()

	if id == "" {
		return ErrEmptyStepID
	}
	if _, ok := h.ids[id]; ok {
		return fmt.Errorf("add step %q: %w", id, ErrDuplicateStepID)
	}

	h.ids[id] = struct{}{}
	h.headLayer.AddStep(NewStep(id, payload))
	h.head = id
	h.apply(payload)
	h.changed(ChangeAdded, id)
	return nil
}

// Undo removes the effect of a step. Every later step is rebased as if the
// step had never run and the document is replayed to the end of the new
// timeline.
func (h *History[P]) Undo(id StepID) error {
	if err := h.enter(); err != nil {
		return err
	}
	defer h.leave()

	ins, err := h.headLayer.FindInstruction(id)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	if ins.Cancelled {
		return fmt.Errorf("undo %q: %w", id, ErrUndoNotAvailable)
	}
	until, err := h.headLayer.InvertedExecutionUntil(id)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	// Resolution is complete, the document is mutated from here on.

	h.revertUntil(until)

	copied, err := ins.Layer.CopyAfter(id)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	rebased := copied.Transformed(h.factory.Without(ins.Step.Payload()))
	if err := rebased.InsertAfter(ins.Layer, id); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	h.logger.Debug("undo %s: rebased %d steps", id, len(rebased.steps))

	if err := h.checkoutEnd(); err != nil {
		return err
	}
	h.changed(ChangeUndone, id)
	return nil
}

// Redo reinstates a step previously undone. Every step rebased by the undo
// is rebased again to account for its return.
func (h *History[P]) Redo(id StepID) error {
	if err := h.enter(); err != nil {
		return err
	}
	defer h.leave()

	undoLayer, err := h.headLayer.FindUndoLayer(id)
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	if undoLayer == nil {
		return fmt.Errorf("redo %q: %w", id, ErrRedoNotAvailable)
	}
	ins, err := h.headLayer.FindInstruction(id)
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	until, err := h.headLayer.InvertedExecutionUntil(id)
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}

	h.revertUntil(until)

	rebased := undoLayer.Transformed(h.factory.With(ins.Step.Payload()))
	undoLayer.Delete()
	if err := rebased.InsertAfter(undoLayer, ""); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	h.logger.Debug("redo %s: rebased %d steps", id, len(rebased.steps))

	if err := h.checkoutEnd(); err != nil {
		return err
	}
	h.changed(ChangeRedone, id)
	return nil
}

// revertUntil reverts every live step down to and including the target and
// leaves HEAD on the step right before it.
func (h *History[P]) revertUntil(until *Until[P]) {
	reverted := 0
	for ins, ok := until.Next(); ok; ins, ok = until.Next() {
		if !ins.Cancelled {
			h.revert(ins.Step.Payload())
			reverted++
		}
		if next, ok := until.Lookahead(); ok {
			h.head, h.headLayer = next.Step.id, next.Layer
		} else {
			h.head, h.headLayer = "", h.root
		}
	}
	h.logger.Debug("revert: %d steps reverted, head %q", reverted, h.head)
}

// checkoutEnd replays every live step after HEAD and moves HEAD to the end of
// the timeline.
func (h *History[P]) checkoutEnd() error {
	var exec *Execution[P]
	if h.head == "" {
		exec = h.headLayer.Execution()
	} else {
		var err error
		exec, err = h.headLayer.ExecutionAfter(h.head)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}

	applied := 0
	for ins, ok := exec.Next(); ok; ins, ok = exec.Next() {
		if !ins.Cancelled {
			h.apply(ins.Step.Payload())
			applied++
		}
		h.head, h.headLayer = ins.Step.id, ins.Layer
	}
	h.headLayer = h.headLayer.Tail()
	h.logger.Debug("replay: %d steps applied, head %q", applied, h.head)
	return nil
}

// Head returns the id of the step at HEAD.
func (h *History[P]) Head() (StepID, bool) {
	return h.head, h.head != ""
}

// CanUndo reports whether Undo would accept the step.
func (h *History[P]) CanUndo(id StepID) bool {
	ins, err := h.headLayer.FindInstruction(id)
	return err == nil && !ins.Cancelled
}

// CanRedo reports whether Redo would accept the step.
func (h *History[P]) CanRedo(id StepID) bool {
	undoLayer, err := h.headLayer.FindUndoLayer(id)
	return err == nil && undoLayer != nil
}

// Timeline returns the current timeline from the root, cancelled steps
// included.
func (h *History[P]) Timeline() []Instruction[P] {
	return h.root.Execution().Collect()
}

// Root returns the root layer.
func (h *History[P]) Root() *Layer[P] {
	return h.root
}

// Len returns the number of step ids ever registered.
func (h *History[P]) Len() int {
	return len(h.ids)
}

func (h *History[P]) enter() error {
	if h.running {
		return ErrReentrantCall
	}
	h.running = true
	return nil
}

func (h *History[P]) leave() {
	h.running = false
}
