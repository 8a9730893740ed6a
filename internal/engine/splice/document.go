package splice

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrOutOfRange is reported when a splice does not fit the document.
var ErrOutOfRange = errors.New("splice out of range")

// Document is a rune-indexed text buffer.
type Document struct {
	runes []rune
	err   error
}

// NewDocument creates a document holding content.
func NewDocument(content string) *Document {
	return &Document{runes: []rune(content)}
}

// Apply performs the splice. A splice starting past the end, or whose Delete
// text is not found at Pos, leaves the document unchanged and is reported by
// Err.
func (d *Document) Apply(s Splice) {
	start, end := s.Pos, s.Pos+utf8.RuneCountInString(s.Delete)
	if start < 0 || end > len(d.runes) || string(d.runes[start:end]) != s.Delete {
		d.fail(fmt.Errorf("apply %v to document of length %d: %w", s, len(d.runes), ErrOutOfRange))
		return
	}

	insert := []rune(s.Insert)
	out := make([]rune, 0, len(d.runes)-(end-start)+len(insert))
	out = append(out, d.runes[:start]...)
	out = append(out, insert...)
	out = append(out, d.runes[end:]...)
	d.runes = out
}

// Revert undoes a splice previously applied.
func (d *Document) Revert(s Splice) {
	d.Apply(s.Inverse())
}

// Err returns the first splice refused by Apply or Revert.
func (d *Document) Err() error {
	return d.err
}

// String returns the document text.
func (d *Document) String() string {
	return string(d.runes)
}

// Len returns the document length in runes.
func (d *Document) Len() int {
	return len(d.runes)
}

func (d *Document) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}
