// Copyright © 2024 The Arrow authors

package lisp

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Shadowing selects which binding wins when several bindings share a name.
type Shadowing uint8

const (
	// ShadowInnermost resolves a name to its most recently pushed binding.
	ShadowInnermost Shadowing = iota
	// ShadowOutermost resolves a name to its first pushed binding.
	ShadowOutermost
)

func (s Shadowing) String() string {
	switch s {
	case ShadowInnermost:
		return "innermost"
	case ShadowOutermost:
		return "outermost"
	default:
		return fmt.Sprintf("shadowing(%d)", uint8(s))
	}
}

// ParseShadowing parses the name of a shadowing rule.
func ParseShadowing(name string) (Shadowing, error) {
	switch name {
	case "", "innermost":
		return ShadowInnermost, nil
	case "outermost":
		return ShadowOutermost, nil
	default:
		return 0, fmt.Errorf("unknown shadowing rule: %q", name)
	}
}

// Env is the variable environment used while reducing values.  It is a stack
// of bindings that is only modified through push, which returns the function
// that restores the stack.  An Env is owned by a single top-level evaluation.
type Env struct {
	Runtime  *Runtime
	bindings []*Value
}

// NewEnv returns an empty environment attached to runtime.
func NewEnv(runtime *Runtime) *Env {
	if runtime == nil {
		runtime = StandardRuntime()
	}
	return &Env{Runtime: runtime}
}

// Len returns the number of bindings currently on the stack.
func (env *Env) Len() int {
	return len(env.bindings)
}

// Resolve returns the value bound to name.  When the bound value is itself a
// symbol it is resolved again against the bindings pushed before it; a symbol
// with no further binding is returned as is.
func (env *Env) Resolve(name string) (*Value, bool) {
	return env.resolve(name, len(env.bindings))
}

func (env *Env) resolve(name string, limit int) (*Value, bool) {
	i := env.lookup(name, limit)
	if i < 0 {
		return nil, false
	}
	v := env.bindings[i].Cells[0]
	if v.Type == LSymbol {
		if next, ok := env.resolve(v.Str, i); ok {
			return next, true
		}
	}
	return v, true
}

// lookup returns the index of the binding for name among the first limit
// bindings on the stack, or -1.
func (env *Env) lookup(name string, limit int) int {
	if env.Runtime.Shadowing == ShadowOutermost {
		for i := 0; i < limit; i++ {
			if env.bindings[i].Str == name {
				return i
			}
		}
		return -1
	}
	for i := limit - 1; i >= 0; i-- {
		if env.bindings[i].Str == name {
			return i
		}
	}
	return -1
}

// push adds a binding to the top of the stack.  The returned function pops it
// and must be called exactly once, typically deferred.
func (env *Env) push(name string, v *Value) (pop func()) {
	height := len(env.bindings)
	env.bindings = append(env.bindings, Binding(name, v))
	env.logger().WithFields(logrus.Fields{
		"name":   name,
		"height": height + 1,
	}).Trace("push binding")
	return func() {
		env.bindings[height] = nil
		env.bindings = env.bindings[:height]
		env.logger().WithFields(logrus.Fields{
			"name":   name,
			"height": height,
		}).Trace("pop binding")
	}
}

func (env *Env) logger() logrus.FieldLogger {
	return env.Runtime.logger()
}
