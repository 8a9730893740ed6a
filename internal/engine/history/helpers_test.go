package history

import "strings"

// insertion is a minimal text payload used by the tests.
type insertion struct {
	pos  int
	text string
}

type textDoc struct {
	content string
}

func (d *textDoc) apply(p insertion) {
	d.content = d.content[:p.pos] + p.text + d.content[p.pos:]
}

func (d *textDoc) revert(p insertion) {
	d.content = d.content[:p.pos] + d.content[p.pos+len(p.text):]
}

// shiftFactory shifts insertions that follow the reference and cancels
// insertions made inside the reference's text.
type shiftFactory struct{}

func (shiftFactory) Without(ref insertion) Transformation[insertion] {
	return func(p insertion) (insertion, bool) {
		end := ref.pos + len(ref.text)
		switch {
		case p.pos >= end:
			p.pos -= len(ref.text)
		case p.pos > ref.pos:
			return p, false
		}
		return p, true
	}
}

func (shiftFactory) With(ref insertion) Transformation[insertion] {
	return func(p insertion) (insertion, bool) {
		if p.pos >= ref.pos {
			p.pos += len(ref.text)
		}
		return p, true
	}
}

func newTestHistory() (*History[insertion], *textDoc) {
	doc := &textDoc{}
	return New[insertion](doc.apply, doc.revert, shiftFactory{}), doc
}

func mustAdd(t interface{ Fatalf(string, ...any) }, h *History[insertion], id StepID, pos int, text string) {
	if err := h.AddStep(id, insertion{pos: pos, text: text}); err != nil {
		t.Fatalf("AddStep(%q) error = %v", id, err)
	}
}

// timelineString renders the live timeline as "id" or "(id)" for cancelled.
func timelineString(h *History[insertion]) string {
	var parts []string
	for _, ins := range h.Timeline() {
		if ins.Cancelled {
			parts = append(parts, "("+string(ins.Step.ID())+")")
			continue
		}
		parts = append(parts, string(ins.Step.ID()))
	}
	return strings.Join(parts, " ")
}

// graphShape lists every layer reachable forward from the root.
func graphShape[P any](root *Layer[P]) []string {
	var shape []string
	for l := root; l != nil; l = l.Next() {
		desc := ""
		for _, s := range l.Steps() {
			desc += string(s.ID())
		}
		if id, ok := l.BranchingStepID(); ok {
			desc += "@" + string(id)
		}
		if l.IsDeleted() {
			desc += "!"
		}
		shape = append(shape, desc)
	}
	return shape
}
