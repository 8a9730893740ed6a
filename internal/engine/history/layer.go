package history

import "fmt"

// noBranch marks a layer that has no branch point.
const noBranch = -1

// Layer is an ordered run of steps representing one version of what happens
// after a branch point.
//
// A layer links to the layer it branched from (previous) and to at most one
// layer that supersedes its tail (next). When the branch point is set, the
// execution leaves this layer right after the branch step and continues in
// next. A deleted layer is skipped by executions but kept so that ancestors
// and descendants stay linked.
type Layer[P any] struct {
	steps    []Step[P]
	previous *Layer[P]
	next     *Layer[P]
	branch   int
	deleted  bool
}

// NewLayer creates an empty root layer.
func NewLayer[P any]() *Layer[P] {
	return &Layer[P]{branch: noBranch}
}

func newLayerWith[P any](steps []Step[P]) *Layer[P] {
	return &Layer[P]{steps: steps, branch: noBranch}
}

// AddStep appends a step. Id uniqueness is enforced by History.
func (l *Layer[P]) AddStep(step Step[P]) {
	l.steps = append(l.steps, step)
}

// Steps returns a copy of the layer's steps in insertion order.
func (l *Layer[P]) Steps() []Step[P] {
	out := make([]Step[P], len(l.steps))
	copy(out, l.steps)
	return out
}

// Previous returns the layer this layer branched from.
func (l *Layer[P]) Previous() *Layer[P] {
	return l.previous
}

// Next returns the layer that supersedes this layer's tail.
func (l *Layer[P]) Next() *Layer[P] {
	return l.next
}

// BranchingStepID returns the id of the step after which execution moves
// into next.
func (l *Layer[P]) BranchingStepID() (StepID, bool) {
	if l.branch == noBranch {
		return "", false
	}
	return l.steps[l.branch].id, true
}

// IsDeleted reports whether the layer was superseded by a redo.
func (l *Layer[P]) IsDeleted() bool {
	return l.deleted
}

// Delete marks the layer as deleted. Links are left untouched.
func (l *Layer[P]) Delete() {
	l.deleted = true
}

// Tail returns the last layer reached by following next links.
func (l *Layer[P]) Tail() *Layer[P] {
	tail := l
	for tail.next != nil {
		tail = tail.next
	}
	return tail
}

// Execution returns a cursor over the current timeline starting at this layer.
func (l *Layer[P]) Execution() *Execution[P] {
	return newExecution(l)
}

// RevertedExecution returns a cursor walking the timeline backward from this
// layer's last live step down to the root.
func (l *Layer[P]) RevertedExecution() *RevertedExecution[P] {
	return newRevertedExecution(l)
}

// InvertedExecutionUntil returns the prefix of RevertedExecution up to and
// including the step with the given id. The target is located before the
// cursor is returned, so a missing id fails without any iteration.
func (l *Layer[P]) InvertedExecutionUntil(id StepID) (*Until[P], error) {
	if _, err := l.FindInstruction(id); err != nil {
		return nil, err
	}
	return &Until[P]{inner: newRevertedExecution(l), target: id}, nil
}

// ExecutionAfter returns an execution cursor positioned strictly after the
// step with the given id.
func (l *Layer[P]) ExecutionAfter(id StepID) (*Execution[P], error) {
	exec := newExecution(l)
	for {
		ins, ok := exec.Next()
		if !ok {
			return nil, fmt.Errorf("execution after %q: %w", id, ErrStepNotFound)
		}
		if ins.Step.id == id {
			return exec, nil
		}
	}
}

// FindInstruction searches the reverted execution for the live step with the
// given id.
func (l *Layer[P]) FindInstruction(id StepID) (Instruction[P], error) {
	rev := newRevertedExecution(l)
	for {
		ins, ok := rev.Next()
		if !ok {
			return Instruction[P]{}, fmt.Errorf("step %q: %w", id, ErrStepNotFound)
		}
		if ins.Step.id == id {
			return ins, nil
		}
	}
}

// FindLayer returns the layer owning the live step with the given id.
func (l *Layer[P]) FindLayer(id StepID) (*Layer[P], error) {
	ins, err := l.FindInstruction(id)
	if err != nil {
		return nil, err
	}
	return ins.Layer, nil
}

// FindUndoLayer returns the layer created when the step was undone. It
// returns nil when the step is not currently undone.
func (l *Layer[P]) FindUndoLayer(id StepID) (*Layer[P], error) {
	owner, err := l.FindLayer(id)
	if err != nil {
		return nil, err
	}
	if owner.branch == noBranch || owner.steps[owner.branch].id != id {
		return nil, nil
	}
	if owner.next == nil || owner.next.deleted {
		return nil, nil
	}
	return owner.next, nil
}

// CopyAfter builds a new layer holding the live steps that follow the step
// with the given id.
//
// This mutates the graph: when this layer already has a next layer, that
// layer is detached from here and attached after the copy, keeping its branch
// point. The caller is expected to attach a layer back onto this one.
func (l *Layer[P]) CopyAfter(id StepID) (*Layer[P], error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("copy after %q: %w", id, ErrStepNotFound)
	}
	if l.branch != noBranch && idx > l.branch {
		return nil, fmt.Errorf("copy after %q: step is past the branch point: %w", id, ErrStepNotFound)
	}

	end := len(l.steps)
	if l.branch != noBranch {
		end = l.branch + 1
	}
	steps := make([]Step[P], end-idx-1)
	copy(steps, l.steps[idx+1:end])
	copied := newLayerWith(steps)

	branch := noBranch
	if l.branch > idx {
		branch = l.branch - idx - 1
	}
	if next := l.detachNext(); next != nil {
		copied.attach(next, branch)
	}
	return copied, nil
}

// Transformed rebuilds this layer and its whole forward chain with fn applied
// to every step. Branch points and deleted marks are preserved. The returned
// layer has no previous layer.
func (l *Layer[P]) Transformed(fn Transformation[P]) *Layer[P] {
	head := l.transformedSelf(fn)
	src, dst := l, head
	for src.next != nil {
		copied := src.next.transformedSelf(fn)
		dst.attach(copied, src.branch)
		src, dst = src.next, copied
	}
	return head
}

func (l *Layer[P]) transformedSelf(fn Transformation[P]) *Layer[P] {
	steps := make([]Step[P], len(l.steps))
	for i, step := range l.steps {
		steps[i] = step.Transformed(fn)
	}
	copied := newLayerWith(steps)
	copied.deleted = l.deleted
	return copied
}

// InsertAfter attaches this layer after parent. An empty branch id attaches
// the layer after all of parent's steps. Any layer previously attached to
// parent is detached.
func (l *Layer[P]) InsertAfter(parent *Layer[P], branch StepID) error {
	idx := noBranch
	if branch != "" {
		idx = parent.indexOf(branch)
		if idx < 0 {
			return fmt.Errorf("insert after %q: %w", branch, ErrStepNotFound)
		}
	}
	parent.attach(l, idx)
	return nil
}

// attach is the only place where next links are set.
func (l *Layer[P]) attach(child *Layer[P], branch int) {
	l.detachNext()
	l.next = child
	l.branch = branch
	child.previous = l
}

func (l *Layer[P]) detachNext() *Layer[P] {
	next := l.next
	if next == nil {
		return nil
	}
	l.next = nil
	l.branch = noBranch
	next.previous = nil
	return next
}

func (l *Layer[P]) indexOf(id StepID) int {
	for i, step := range l.steps {
		if step.id == id {
			return i
		}
	}
	return -1
}

// cancels reports whether the step at index i must be skipped when replaying.
func (l *Layer[P]) cancels(i int) bool {
	if l.steps[i].inert {
		return true
	}
	return i == l.branch && l.next != nil && !l.next.deleted
}

// lastLive is the index of the last step executed before leaving the layer.
func (l *Layer[P]) lastLive() int {
	if l.branch != noBranch {
		return l.branch
	}
	return len(l.steps) - 1
}
