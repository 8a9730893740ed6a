package history

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddStep(t *testing.T) {
	h, doc := newTestHistory()

	if _, ok := h.Head(); ok {
		t.Error("empty history should have no head")
	}

	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "BB")

	if doc.content != "ABB" {
		t.Errorf("content = %q, want %q", doc.content, "ABB")
	}
	if head, ok := h.Head(); !ok || head != "2" {
		t.Errorf("Head() = %q, %v; want 2, true", head, ok)
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestAddStepErrors(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")

	if err := h.AddStep("1", insertion{pos: 0, text: "Z"}); !errors.Is(err, ErrDuplicateStepID) {
		t.Errorf("AddStep duplicate error = %v, want ErrDuplicateStepID", err)
	}
	if err := h.AddStep("", insertion{pos: 0, text: "Z"}); !errors.Is(err, ErrEmptyStepID) {
		t.Errorf("AddStep empty error = %v, want ErrEmptyStepID", err)
	}
	if doc.content != "A" {
		t.Errorf("rejected steps must not be applied, content = %q", doc.content)
	}
}

func TestDuplicateIDAfterUndo(t *testing.T) {
	h, _ := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if err := h.AddStep("1", insertion{pos: 0, text: "Z"}); !errors.Is(err, ErrDuplicateStepID) {
		t.Errorf("ids are never reused, error = %v", err)
	}
}

func TestUndoRedoScenario(t *testing.T) {
	h, doc := newTestHistory()

	steps := []struct {
		id   StepID
		pos  int
		text string
		want string
	}{
		{"1", 0, "A", "A"},
		{"2", 1, "BB", "ABB"},
		{"3", 3, "CCC", "ABBCCC"},
	}
	for _, s := range steps {
		mustAdd(t, h, s.id, s.pos, s.text)
		if doc.content != s.want {
			t.Fatalf("after AddStep(%q) content = %q, want %q", s.id, doc.content, s.want)
		}
	}

	if err := h.Undo("2"); err != nil {
		t.Fatalf("Undo(2) error = %v", err)
	}
	if doc.content != "ACCC" {
		t.Errorf("after Undo(2) content = %q, want %q", doc.content, "ACCC")
	}
	if got := timelineString(h); got != "1 (2) 3" {
		t.Errorf("timeline = %q, want %q", got, "1 (2) 3")
	}

	if err := h.Redo("2"); err != nil {
		t.Fatalf("Redo(2) error = %v", err)
	}
	if doc.content != "ABBCCC" {
		t.Errorf("after Redo(2) content = %q, want %q", doc.content, "ABBCCC")
	}
	if got := timelineString(h); got != "1 2 3" {
		t.Errorf("timeline = %q, want %q", got, "1 2 3")
	}
	if head, _ := h.Head(); head != "3" {
		t.Errorf("Head() = %q, want 3", head)
	}
}

func TestUndoRedoRoundTripLastStep(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "hello")
	mustAdd(t, h, "2", 5, " world")
	before := doc.content

	if err := h.Undo("2"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if doc.content != "hello" {
		t.Errorf("after Undo content = %q, want %q", doc.content, "hello")
	}
	if err := h.Redo("2"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if doc.content != before {
		t.Errorf("after Redo content = %q, want %q", doc.content, before)
	}
}

func TestReverseOrderUndo(t *testing.T) {
	tests := []struct {
		name  string
		order []StepID
	}{
		{"three then one", []StepID{"3", "1"}},
		{"one then three", []StepID{"1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, doc := newTestHistory()
			mustAdd(t, h, "1", 0, "A")
			mustAdd(t, h, "2", 1, "BB")
			mustAdd(t, h, "3", 3, "CCC")

			for _, id := range tt.order {
				if err := h.Undo(id); err != nil {
					t.Fatalf("Undo(%q) error = %v", id, err)
				}
			}
			if doc.content != "BB" {
				t.Errorf("content = %q, want %q", doc.content, "BB")
			}
			if got := timelineString(h); got != "(1) 2 (3)" {
				t.Errorf("timeline = %q, want %q", got, "(1) 2 (3)")
			}
		})
	}
}

func TestRedoInAnyOrder(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "BB")
	mustAdd(t, h, "3", 3, "CCC")

	for _, id := range []StepID{"3", "1"} {
		if err := h.Undo(id); err != nil {
			t.Fatalf("Undo(%q) error = %v", id, err)
		}
	}
	if err := h.Redo("3"); err != nil {
		t.Fatalf("Redo(3) error = %v", err)
	}
	if doc.content != "BBCCC" {
		t.Errorf("after Redo(3) content = %q, want %q", doc.content, "BBCCC")
	}
	if err := h.Redo("1"); err != nil {
		t.Fatalf("Redo(1) error = %v", err)
	}
	if doc.content != "ABBCCC" {
		t.Errorf("after Redo(1) content = %q, want %q", doc.content, "ABBCCC")
	}
}

func TestUndoDisjointStepKeepsLaterEffect(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "tail")
	mustAdd(t, h, "2", 0, "head-")

	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if doc.content != "head-" {
		t.Errorf("content = %q, want %q", doc.content, "head-")
	}
}

func TestUndoRedoCycle(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "BB")
	mustAdd(t, h, "3", 3, "CCC")

	for i := 0; i < 3; i++ {
		if err := h.Undo("2"); err != nil {
			t.Fatalf("cycle %d: Undo() error = %v", i, err)
		}
		if doc.content != "ACCC" {
			t.Fatalf("cycle %d: after Undo content = %q, want %q", i, doc.content, "ACCC")
		}
		if err := h.Redo("2"); err != nil {
			t.Fatalf("cycle %d: Redo() error = %v", i, err)
		}
		if doc.content != "ABBCCC" {
			t.Fatalf("cycle %d: after Redo content = %q, want %q", i, doc.content, "ABBCCC")
		}
	}
}

func TestAddStepAfterUndoIsRebasedOnRedo(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "B")

	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	mustAdd(t, h, "3", 1, "C")
	if doc.content != "BC" {
		t.Fatalf("content = %q, want %q", doc.content, "BC")
	}

	if err := h.Redo("1"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if doc.content != "ABC" {
		t.Errorf("content = %q, want %q", doc.content, "ABC")
	}
	if got := timelineString(h); got != "1 2 3" {
		t.Errorf("timeline = %q, want %q", got, "1 2 3")
	}
}

func TestUndoFirstStep(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")

	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if doc.content != "" {
		t.Errorf("content = %q, want empty", doc.content)
	}

	mustAdd(t, h, "2", 0, "Z")
	if doc.content != "Z" {
		t.Errorf("content = %q, want %q", doc.content, "Z")
	}
	if err := h.Redo("1"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if doc.content != "AZ" {
		t.Errorf("content = %q, want %q", doc.content, "AZ")
	}
}

func TestUndoErrors(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "B")

	if err := h.Undo("missing"); !errors.Is(err, ErrStepNotFound) {
		t.Errorf("Undo(missing) error = %v, want ErrStepNotFound", err)
	}
	if doc.content != "AB" {
		t.Errorf("failed undo mutated document: %q", doc.content)
	}

	if err := h.Undo("2"); err != nil {
		t.Fatalf("Undo(2) error = %v", err)
	}
	if err := h.Undo("2"); !errors.Is(err, ErrUndoNotAvailable) {
		t.Errorf("second Undo(2) error = %v, want ErrUndoNotAvailable", err)
	}
	if h.CanUndo("2") {
		t.Error("CanUndo(2) should be false once undone")
	}
	if !h.CanUndo("1") {
		t.Error("CanUndo(1) should be true")
	}
}

func TestRedoNotAvailable(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "B")
	mustAdd(t, h, "3", 2, "C")
	if err := h.Undo("3"); err != nil {
		t.Fatalf("Undo(3) error = %v", err)
	}

	before := graphShape(h.Root())
	tests := []struct {
		name string
		id   StepID
		want error
	}{
		{"never undone", "1", ErrRedoNotAvailable},
		{"unknown", "missing", ErrStepNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Redo(tt.id); !errors.Is(err, tt.want) {
				t.Errorf("Redo(%q) error = %v, want %v", tt.id, err, tt.want)
			}
			if after := graphShape(h.Root()); !reflect.DeepEqual(before, after) {
				t.Errorf("graph changed: before %v, after %v", before, after)
			}
			if doc.content != "AB" {
				t.Errorf("content = %q, want %q", doc.content, "AB")
			}
		})
	}

	if err := h.Redo("3"); err != nil {
		t.Fatalf("Redo(3) error = %v", err)
	}
	if err := h.Redo("3"); !errors.Is(err, ErrRedoNotAvailable) {
		t.Errorf("second Redo(3) error = %v, want ErrRedoNotAvailable", err)
	}
	if h.CanRedo("3") {
		t.Error("CanRedo(3) should be false once redone")
	}
}

func TestInertStepIsSkipped(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "AB")
	mustAdd(t, h, "2", 1, "X")

	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if doc.content != "" {
		t.Errorf("content = %q, want empty", doc.content)
	}
	if got := timelineString(h); got != "(1) (2)" {
		t.Errorf("timeline = %q, want %q", got, "(1) (2)")
	}
	if err := h.Undo("2"); !errors.Is(err, ErrUndoNotAvailable) {
		t.Errorf("Undo(inert) error = %v, want ErrUndoNotAvailable", err)
	}

	if err := h.Redo("1"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if doc.content != "AB" {
		t.Errorf("content = %q, want %q", doc.content, "AB")
	}
}

func TestReplayMatchesIncrementalState(t *testing.T) {
	h, doc := newTestHistory()
	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "BB")
	mustAdd(t, h, "3", 0, "CCC")
	mustAdd(t, h, "4", 6, "D")

	check := func(label string) {
		t.Helper()
		replayed := &textDoc{}
		for _, ins := range h.Timeline() {
			if !ins.Cancelled {
				replayed.apply(ins.Step.Payload())
			}
		}
		if replayed.content != doc.content {
			t.Errorf("%s: replay = %q, incremental = %q", label, replayed.content, doc.content)
		}
	}

	check("after adds")
	if err := h.Undo("2"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	check("after undo")
	mustAdd(t, h, "5", 0, "E")
	check("after add on branch")
	if err := h.Redo("2"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	check("after redo")
}

func TestReentrantCall(t *testing.T) {
	doc := &textDoc{}
	var h *History[insertion]
	var inner error
	apply := func(p insertion) {
		doc.apply(p)
		if p.text == "A" {
			inner = h.AddStep("nested", insertion{pos: 0, text: "Z"})
		}
	}
	h = New[insertion](apply, doc.revert, shiftFactory{})

	mustAdd(t, h, "1", 0, "A")
	if !errors.Is(inner, ErrReentrantCall) {
		t.Errorf("nested AddStep error = %v, want ErrReentrantCall", inner)
	}
	mustAdd(t, h, "2", 1, "B")
	if doc.content != "AB" {
		t.Errorf("content = %q, want %q", doc.content, "AB")
	}
}

type recordingLogger struct {
	lines int
}

func (r *recordingLogger) Debug(string, ...any) { r.lines++ }

func TestWithLogger(t *testing.T) {
	doc := &textDoc{}
	logger := &recordingLogger{}
	h := New[insertion](doc.apply, doc.revert, shiftFactory{}, WithLogger(logger))
	mustAdd(t, h, "1", 0, "A")
	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if logger.lines == 0 {
		t.Error("expected debug traces for undo phases")
	}
}

func TestWithListener(t *testing.T) {
	doc := &textDoc{}
	var got []Change
	h := New[insertion](doc.apply, doc.revert, shiftFactory{}, WithListener(func(c Change) {
		got = append(got, c)
	}))

	mustAdd(t, h, "1", 0, "A")
	mustAdd(t, h, "2", 1, "B")
	if err := h.Undo("1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if err := h.Redo("2"); err == nil {
		t.Fatal("Redo() of a live step should fail")
	}
	if err := h.Redo("1"); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}

	want := []Change{
		{Kind: ChangeAdded, StepID: "1", Head: "1"},
		{Kind: ChangeAdded, StepID: "2", Head: "2"},
		{Kind: ChangeUndone, StepID: "1", Head: "2"},
		{Kind: ChangeRedone, StepID: "1", Head: "2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %+v, want %+v", got, want)
	}
	if got[2].Kind.String() != "undone" {
		t.Errorf("ChangeUndone.String() = %q", got[2].Kind.String())
	}
}

func TestNewPanicsWithoutFactory(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() without factory should panic")
		}
	}()
	doc := &textDoc{}
	New[insertion](doc.apply, doc.revert, nil)
}

func TestNewStepID(t *testing.T) {
	a, b := NewStepID(), NewStepID()
	if a == "" || a == b {
		t.Errorf("NewStepID() = %q, %q; want distinct non-empty ids", a, b)
	}
}
