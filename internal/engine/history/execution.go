package history

// Instruction is one entry of an execution: a step, the layer it was read
// from, and whether replay must skip it.
type Instruction[P any] struct {
	Step      Step[P]
	Layer     *Layer[P]
	Cancelled bool
}

// Execution walks the timeline forward. It is lazy and finite; Reset
// restarts it from its first layer.
type Execution[P any] struct {
	start *Layer[P]
	layer *Layer[P]
	index int
}

func newExecution[P any](l *Layer[P]) *Execution[P] {
	return &Execution[P]{start: l, layer: l}
}

// Next returns the next instruction, or false when the timeline is exhausted.
func (e *Execution[P]) Next() (Instruction[P], bool) {
	for e.layer != nil {
		l := e.layer
		if l.deleted || e.index >= len(l.steps) {
			e.layer, e.index = l.next, 0
			continue
		}
		i := e.index
		e.index++
		ins := Instruction[P]{Step: l.steps[i], Layer: l, Cancelled: l.cancels(i)}
		if i == l.branch {
			e.layer, e.index = l.next, 0
		}
		return ins, true
	}
	return Instruction[P]{}, false
}

// Peek returns the instruction Next would return without consuming it.
func (e *Execution[P]) Peek() (Instruction[P], bool) {
	c := *e
	return c.Next()
}

// Reset restarts the execution.
func (e *Execution[P]) Reset() {
	e.layer, e.index = e.start, 0
}

// Collect drains the remaining instructions.
func (e *Execution[P]) Collect() []Instruction[P] {
	var out []Instruction[P]
	for ins, ok := e.Next(); ok; ins, ok = e.Next() {
		out = append(out, ins)
	}
	return out
}

// RevertedExecution walks the timeline backward: a layer's live steps from
// last to first, then its previous layer from the branch point down.
type RevertedExecution[P any] struct {
	start *Layer[P]
	layer *Layer[P]
	index int
}

func newRevertedExecution[P any](l *Layer[P]) *RevertedExecution[P] {
	return &RevertedExecution[P]{start: l, layer: l, index: l.lastLive()}
}

// Next returns the next instruction, or false once the root was passed.
func (r *RevertedExecution[P]) Next() (Instruction[P], bool) {
	for r.layer != nil {
		l := r.layer
		if !l.deleted && r.index >= 0 {
			i := r.index
			r.index--
			return Instruction[P]{Step: l.steps[i], Layer: l, Cancelled: l.cancels(i)}, true
		}
		r.layer = l.previous
		if r.layer != nil {
			r.index = r.layer.lastLive()
		}
	}
	return Instruction[P]{}, false
}

// Peek returns the instruction Next would return without consuming it.
func (r *RevertedExecution[P]) Peek() (Instruction[P], bool) {
	c := *r
	return c.Next()
}

// Reset restarts the execution.
func (r *RevertedExecution[P]) Reset() {
	r.layer, r.index = r.start, r.start.lastLive()
}

// Collect drains the remaining instructions.
func (r *RevertedExecution[P]) Collect() []Instruction[P] {
	var out []Instruction[P]
	for ins, ok := r.Next(); ok; ins, ok = r.Next() {
		out = append(out, ins)
	}
	return out
}

// Until is a reverted execution that stops after its target step.
type Until[P any] struct {
	inner  *RevertedExecution[P]
	target StepID
	done   bool
}

// Next returns the next instruction up to and including the target.
func (u *Until[P]) Next() (Instruction[P], bool) {
	if u.done {
		return Instruction[P]{}, false
	}
	ins, ok := u.inner.Next()
	if !ok || ins.Step.id == u.target {
		u.done = true
	}
	return ins, ok
}

// Lookahead returns the instruction that follows the last one returned, even
// past the target. After the target it names the step that precedes the
// target in the timeline.
func (u *Until[P]) Lookahead() (Instruction[P], bool) {
	return u.inner.Peek()
}
