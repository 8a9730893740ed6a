// Package lua runs transformation rules written in Lua.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Go-Lua type conversion bridge
//   - Rule scripts bound to a transform.Registry
//   - Per-call execution deadlines
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
// # Rules
//
// A rules script registers rebasing functions for pairs of kinds. Each
// function receives the payload to transform and the reference payload as
// tables and returns the rebased table, or nil to cancel the step:
//
//	rules.without("set", "set", function(p, ref)
//	    if p.path == ref.path then
//	        p.prev = ref.prev
//	        p.existed = ref.existed
//	    end
//	    return p
//	end)
//
// LoadRules executes the script and installs every function in a registry:
//
//	n, err := lua.LoadRules(state, registry, codec, script)
//
// A rule that raises an error leaves the step unchanged and is logged.
package lua
