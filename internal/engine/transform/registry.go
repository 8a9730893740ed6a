// Package transform provides a registry of rebasing rules keyed by the kind
// of the step being transformed and the kind of the reference step.
//
// A Registry implements history.TransformationFactory. When no rule matches a
// pair of kinds, the step is left unchanged.
package transform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/history"
)

// Any matches every kind.
const Any = "*"

// Errors returned by rule registration.
var (
	ErrNilRule   = errors.New("nil rule")
	ErrEmptyKind = errors.New("empty kind")
)

// Direction selects which table a rule is registered in.
type Direction int

const (
	// Without rules rebase a step as if the reference had never run.
	Without Direction = iota
	// With rules rebase a step as if the reference had just been reinstated.
	With
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Without:
		return "without"
	case With:
		return "with"
	default:
		return "unknown"
	}
}

// Rule rebases toTransform against reference. Returning false cancels the step.
type Rule[P any] func(toTransform, reference P) (P, bool)

type pair struct {
	kind    string
	refKind string
}

// Registry dispatches rebasing to rules by kind pair.
type Registry[P any] struct {
	mu     sync.RWMutex
	kindOf func(P) string
	rules  [2]map[pair]Rule[P]
}

// NewRegistry creates an empty registry. kindOf names the kind of a payload.
func NewRegistry[P any](kindOf func(P) string) *Registry[P] {
	return &Registry[P]{
		kindOf: kindOf,
		rules:  [2]map[pair]Rule[P]{make(map[pair]Rule[P]), make(map[pair]Rule[P])},
	}
}

// Register adds or replaces the rule for a kind pair. Either kind may be Any.
func (r *Registry[P]) Register(dir Direction, kind, refKind string, rule Rule[P]) error {
	if rule == nil {
		return fmt.Errorf("register %s %s/%s: %w", dir, kind, refKind, ErrNilRule)
	}
	if kind == "" || refKind == "" {
		return fmt.Errorf("register %s: %w", dir, ErrEmptyKind)
	}
	if dir != Without && dir != With {
		return fmt.Errorf("register: unknown direction %d", dir)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[dir][pair{kind, refKind}] = rule
	return nil
}

// RegisterPair registers the without and with rules of a kind pair at once.
func (r *Registry[P]) RegisterPair(kind, refKind string, without, with Rule[P]) error {
	if err := r.Register(Without, kind, refKind, without); err != nil {
		return err
	}
	return r.Register(With, kind, refKind, with)
}

// Has reports whether a rule is registered for exactly this pair.
func (r *Registry[P]) Has(dir Direction, kind, refKind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rules[dir][pair{kind, refKind}]
	return ok
}

// Len returns the number of registered rules across both directions.
func (r *Registry[P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules[Without]) + len(r.rules[With])
}

// Without returns a transformation that rebases payloads as if reference had
// never run.
func (r *Registry[P]) Without(reference P) history.Transformation[P] {
	return r.build(Without, reference)
}

// With returns a transformation that rebases payloads as if reference had
// just been reinstated.
func (r *Registry[P]) With(reference P) history.Transformation[P] {
	return r.build(With, reference)
}

func (r *Registry[P]) build(dir Direction, reference P) history.Transformation[P] {
	refKind := r.kindOf(reference)
	return func(payload P) (P, bool) {
		rule, ok := r.lookup(dir, r.kindOf(payload), refKind)
		if !ok {
			return payload, true
		}
		return rule(payload, reference)
	}
}

// lookup prefers exact pairs, then wildcards on the reference, then on the
// transformed kind.
func (r *Registry[P]) lookup(dir Direction, kind, refKind string) (Rule[P], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := r.rules[dir]
	for _, p := range []pair{{kind, refKind}, {kind, Any}, {Any, refKind}, {Any, Any}} {
		if rule, ok := table[p]; ok {
			return rule, true
		}
	}
	return nil, false
}

var _ history.TransformationFactory[int] = (*Registry[int])(nil)
