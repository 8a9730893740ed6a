package jsondoc

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/transform"
)

// without rebases p as if ref had never run.
func without(p, ref Op) (Op, bool) {
	if p.Path == ref.Path {
		p.Prev, p.Existed = ref.Prev, ref.Existed
		return p, true
	}
	if rel, ok := relative(ref.Path, p.Path); ok {
		if !ref.Existed {
			// The enclosing value did not exist before ref.
			return p, false
		}
		return inside(p, ref.Prev, rel)
	}
	if rel, ok := relative(p.Path, ref.Path); ok {
		return around(p, rel, ref.Prev, ref.Existed)
	}
	return p, true
}

// with rebases p as if ref had just run again.
func with(p, ref Op) (Op, bool) {
	if p.Path == ref.Path {
		p.Prev, p.Existed = ref.Value, ref.Kind == KindSet
		return p, true
	}
	if rel, ok := relative(ref.Path, p.Path); ok {
		if ref.Kind != KindSet {
			return p, false
		}
		return inside(p, ref.Value, rel)
	}
	if rel, ok := relative(p.Path, ref.Path); ok {
		return around(p, rel, ref.Value, ref.Kind == KindSet)
	}
	return p, true
}

// inside rebases p, which writes below rel in the object enclosing, onto that
// object.
func inside(p Op, enclosing, rel string) (Op, bool) {
	if !gjson.Parse(enclosing).IsObject() {
		return p, false
	}
	prev := gjson.Get(enclosing, rel)
	p.Prev, p.Existed = prev.Raw, prev.Exists()
	return p, true
}

// around rewrites the part rel of the value p replaced.
func around(p Op, rel, value string, exists bool) (Op, bool) {
	if !p.Existed || !gjson.Parse(p.Prev).IsObject() {
		return p, false
	}
	var (
		prev string
		err  error
	)
	if exists {
		prev, err = sjson.SetRaw(p.Prev, rel, value)
	} else {
		prev, err = sjson.Delete(p.Prev, rel)
	}
	if err != nil {
		return p, false
	}
	p.Prev = prev
	return p, true
}

// Factory returns a rule registry for JSON operations.
func Factory() *transform.Registry[Op] {
	r := transform.NewRegistry(KindOf)
	for _, kind := range []string{KindSet, KindDelete} {
		// Registration only fails on nil rules or empty kinds.
		_ = r.RegisterPair(kind, transform.Any, without, with)
	}
	return r
}
