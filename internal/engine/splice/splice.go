// Package splice implements a text document edited by splices: remove a run
// of text at a rune position and insert another in its place.
//
// It supplies the apply and revert callbacks and the rebasing rules needed to
// drive a history.History over plain text.
//
// Splices carry positions only, so ties are resolved one way: an insertion
// at the exact position of a reference insertion stays before the reference
// text when the reference is removed, and lands after it when the reference
// is applied. Undoing and then redoing a step can therefore move text that was
// inserted at the same position after it.
package splice

import (
	"fmt"
	"unicode/utf8"
)

// Kinds of splices.
const (
	KindInsert  = "insert"
	KindDelete  = "delete"
	KindReplace = "replace"
)

// Splice replaces Delete with Insert at rune position Pos.
type Splice struct {
	Pos    int
	Delete string
	Insert string
}

// Insert creates a splice inserting text at pos.
func Insert(pos int, text string) Splice {
	return Splice{Pos: pos, Insert: text}
}

// Delete creates a splice removing text found at pos.
func Delete(pos int, text string) Splice {
	return Splice{Pos: pos, Delete: text}
}

// Replace creates a splice replacing old with text at pos.
func Replace(pos int, old, text string) Splice {
	return Splice{Pos: pos, Delete: old, Insert: text}
}

// Kind classifies the splice.
func (s Splice) Kind() string {
	switch {
	case s.Delete == "":
		return KindInsert
	case s.Insert == "":
		return KindDelete
	default:
		return KindReplace
	}
}

// Inverse returns the splice undoing s.
func (s Splice) Inverse() Splice {
	return Splice{Pos: s.Pos, Delete: s.Insert, Insert: s.Delete}
}

// Delta is the change in document length, in runes.
func (s Splice) Delta() int {
	return utf8.RuneCountInString(s.Insert) - utf8.RuneCountInString(s.Delete)
}

// String returns a short description.
func (s Splice) String() string {
	return fmt.Sprintf("%s@%d(-%q +%q)", s.Kind(), s.Pos, s.Delete, s.Insert)
}

func (s Splice) deleteEnd() int {
	return s.Pos + utf8.RuneCountInString(s.Delete)
}

func (s Splice) insertEnd() int {
	return s.Pos + utf8.RuneCountInString(s.Insert)
}
