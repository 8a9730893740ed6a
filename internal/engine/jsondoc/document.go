package jsondoc

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Document holds a JSON object.
type Document struct {
	json string
	err  error
}

// NewDocument creates a document from a JSON object. An empty string starts
// from an empty object.
func NewDocument(initial string) (*Document, error) {
	if initial == "" {
		initial = "{}"
	}
	if !gjson.Valid(initial) || !gjson.Parse(initial).IsObject() {
		return nil, fmt.Errorf("new document: %w", ErrInvalidJSON)
	}
	return &Document{json: initial}, nil
}

// Set builds an operation setting path to the raw JSON value, recording the
// current value as its previous value. The document is not changed.
func (d *Document) Set(path, value string) (Op, error) {
	if path == "" {
		return Op{}, ErrEmptyPath
	}
	if !gjson.Valid(value) {
		return Op{}, fmt.Errorf("set %s: %w", path, ErrInvalidJSON)
	}
	return d.Prepare(Op{Kind: KindSet, Path: path, Value: value}), nil
}

// Unset builds an operation deleting path.
func (d *Document) Unset(path string) (Op, error) {
	if path == "" {
		return Op{}, ErrEmptyPath
	}
	return d.Prepare(Op{Kind: KindDelete, Path: path}), nil
}

// Prepare records the value currently found at op.Path.
func (d *Document) Prepare(op Op) Op {
	current := gjson.Get(d.json, op.Path)
	op.Prev, op.Existed = current.Raw, current.Exists()
	return op
}

// Apply performs op. Failures are kept and reported by Err.
func (d *Document) Apply(op Op) {
	switch op.Kind {
	case KindSet:
		d.update(sjson.SetRaw(d.json, op.Path, op.Value))
	case KindDelete:
		d.update(sjson.Delete(d.json, op.Path))
	default:
		d.fail(fmt.Errorf("apply %q: %w", op.Kind, ErrInvalidOp))
	}
}

// Revert restores the value op found at its path.
func (d *Document) Revert(op Op) {
	if op.Existed {
		d.update(sjson.SetRaw(d.json, op.Path, op.Prev))
		return
	}
	d.update(sjson.Delete(d.json, op.Path))
}

// Get returns the value at path.
func (d *Document) Get(path string) gjson.Result {
	return gjson.Get(d.json, path)
}

// JSON returns the document.
func (d *Document) JSON() string {
	return d.json
}

// Err returns the first failure met while applying or reverting.
func (d *Document) Err() error {
	return d.err
}

func (d *Document) update(json string, err error) {
	if err != nil {
		d.fail(err)
		return
	}
	d.json = json
}

func (d *Document) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}
