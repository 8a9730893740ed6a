// Package history provides branching undo/redo for a shared, continuously
// mutated document.
//
// Unlike a linear undo stack, any past step can be undone or redone out of
// order. Every step recorded after the target is rebased through a
// TransformationFactory so that it stays valid in a world where the target
// never ran (undo) or has just been reinstated (redo).
//
// # Steps and Layers
//
// A Step is an immutable edit record: an id plus an opaque payload. Steps are
// grouped into Layers. A Layer is an ordered run of steps with a link to the
// Layer it branched from (previous) and the Layer that supersedes its tail
// (next). The step at which a Layer diverges into its next Layer is the
// branch point; that step is reported as cancelled while next is alive.
//
// Undoing a step creates a new Layer holding rebased copies of every step that
// followed it. Redoing the step tombstones that Layer and attaches a freshly
// rebased copy behind it. Tombstones stay in the graph because they record
// that the branch point is live again.
//
// # History
//
// History tracks HEAD, the current (layer, step) position, and drives the
// document through two callbacks:
//
//	h := history.New(doc.Apply, doc.Revert, factory)
//
//	_ = h.AddStep("1", splice.Insert(0, "A"))
//	_ = h.AddStep("2", splice.Insert(1, "BB"))
//	_ = h.Undo("1")
//	_ = h.Redo("1")
//
// Every call is synchronous and runs to completion. History is not safe for
// concurrent use; callers serialize local and remote edits onto one call
// sequence. Callbacks must not call back into the History.
package history
