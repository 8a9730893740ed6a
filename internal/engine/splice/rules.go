package splice

import "github.com/tsabi/o-spreadsheet-sub001/internal/engine/transform"

// without rebases p as if ref had never been applied. Splices before ref are
// kept, splices after it are shifted back, and splices touching the text ref
// inserted are cancelled.
func without(p, ref Splice) (Splice, bool) {
	switch {
	case p.deleteEnd() <= ref.Pos:
		return p, true
	case p.Pos >= ref.insertEnd():
		p.Pos -= ref.Delta()
		return p, true
	default:
		return p, false
	}
}

// with rebases p as if ref had just been applied. A splice at the position of
// a pure insertion lands after the inserted text.
func with(p, ref Splice) (Splice, bool) {
	switch {
	case p.Pos >= ref.deleteEnd():
		p.Pos += ref.Delta()
		return p, true
	case p.deleteEnd() <= ref.Pos:
		return p, true
	default:
		return p, false
	}
}

// Factory returns a rule registry for splices.
func Factory() *transform.Registry[Splice] {
	r := transform.NewRegistry(Splice.Kind)
	// Rules only fail on nil rules or empty kinds.
	_ = r.RegisterPair(transform.Any, transform.Any, without, with)
	return r
}
