package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/tsabi/o-spreadsheet-sub001/internal/engine/transform"
)

// Codec converts payloads to and from the tables seen by Lua rules.
type Codec[P any] struct {
	Encode func(P) map[string]any
	Decode func(map[string]any) (P, error)
}

// LoadRules runs script with a global rules table and installs every rule it
// registers into reg. It returns the number of rules registered.
func LoadRules[P any](s *State, reg *transform.Registry[P], codec Codec[P], script string) (int, error) {
	return loadRules(s, reg, codec, func() error { return s.DoString(script) })
}

// LoadRulesFile is LoadRules for the script stored at path.
func LoadRulesFile[P any](s *State, reg *transform.Registry[P], codec Codec[P], path string) (int, error) {
	return loadRules(s, reg, codec, func() error { return s.DoFile(path) })
}

func loadRules[P any](s *State, reg *transform.Registry[P], codec Codec[P], run func() error) (int, error) {
	if codec.Encode == nil || codec.Decode == nil {
		return 0, fmt.Errorf("load rules: %w: incomplete codec", ErrBadRule)
	}

	count := 0
	register := func(dir transform.Direction) lua.LGFunction {
		return func(L *lua.LState) int {
			kind := L.CheckString(1)
			refKind := L.CheckString(2)
			fn := L.CheckFunction(3)

			r := &scriptedRule[P]{state: s, fn: fn, codec: codec, name: fmt.Sprintf("%s(%s, %s)", dir, kind, refKind)}
			if err := reg.Register(dir, kind, refKind, r.apply); err != nil {
				L.RaiseError("rules.%s: %s", dir, err.Error())
				return 0
			}
			count++
			return 0
		}
	}

	s.RegisterModule("rules", map[string]lua.LGFunction{
		"without": register(transform.Without),
		"with":    register(transform.With),
	})

	if err := run(); err != nil {
		return count, fmt.Errorf("load rules: %w", err)
	}
	return count, nil
}

// scriptedRule adapts a Lua function to a transform.Rule.
type scriptedRule[P any] struct {
	state *State
	fn    *lua.LFunction
	codec Codec[P]
	name  string
}

// apply calls the Lua function. A nil result cancels the step; any failure
// leaves it unchanged.
func (r *scriptedRule[P]) apply(toTransform, reference P) (P, bool) {
	results, err := r.state.CallFunction(r.fn, r.codec.Encode(toTransform), r.codec.Encode(reference))
	if err != nil {
		r.state.logger.Warn("rule %s failed: %v", r.name, err)
		return toTransform, true
	}
	if len(results) == 0 || results[0] == nil {
		return toTransform, false
	}

	m, ok := results[0].(map[string]any)
	if !ok {
		r.state.logger.Warn("rule %s returned %T, want table", r.name, results[0])
		return toTransform, true
	}
	out, err := r.codec.Decode(m)
	if err != nil {
		r.state.logger.Warn("rule %s: %v", r.name, err)
		return toTransform, true
	}
	return out, true
}
