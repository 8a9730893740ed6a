package jsondoc

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of operations.
const (
	KindSet    = "set"
	KindDelete = "delete"
)

// Errors returned by document operations.
var (
	ErrInvalidJSON = errors.New("invalid json")
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidOp   = errors.New("invalid operation")
)

// Op sets or deletes the value at Path. Value, Prev are raw JSON.
type Op struct {
	Kind    string
	Path    string
	Value   string
	Prev    string
	Existed bool
}

// KindOf returns the kind of op.
func KindOf(op Op) string {
	return op.Kind
}

// String returns a short description.
func (op Op) String() string {
	if op.Kind == KindDelete {
		return fmt.Sprintf("delete %s", op.Path)
	}
	return fmt.Sprintf("set %s=%s", op.Path, op.Value)
}

// Encode converts op to a generic map.
func Encode(op Op) map[string]any {
	return map[string]any{
		"kind":    op.Kind,
		"path":    op.Path,
		"value":   op.Value,
		"prev":    op.Prev,
		"existed": op.Existed,
	}
}

// Decode builds an Op from a generic map produced by Encode.
func Decode(m map[string]any) (Op, error) {
	var op Op
	var ok bool
	if op.Kind, ok = m["kind"].(string); !ok || (op.Kind != KindSet && op.Kind != KindDelete) {
		return Op{}, fmt.Errorf("decode kind %v: %w", m["kind"], ErrInvalidOp)
	}
	if op.Path, ok = m["path"].(string); !ok || op.Path == "" {
		return Op{}, fmt.Errorf("decode path: %w", ErrEmptyPath)
	}
	op.Value, _ = m["value"].(string)
	op.Prev, _ = m["prev"].(string)
	op.Existed, _ = m["existed"].(bool)
	return op, nil
}

// relative returns the part of path below ancestor, or false when ancestor
// does not enclose path.
func relative(ancestor, path string) (string, bool) {
	if !strings.HasPrefix(path, ancestor+".") {
		return "", false
	}
	return path[len(ancestor)+1:], true
}
