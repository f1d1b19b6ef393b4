// Copyright © 2024 The Arrow authors

package lisp

import (
	"sync"

	"src.elv.sh/pkg/persistent/vector"
)

// Registry is the ordered, append-only sequence of registered definitions.
// Entries are held in a persistent vector so that an invocation walks an
// immutable snapshot while other goroutines register new definitions.
type Registry struct {
	mut  sync.RWMutex
	defs vector.Vector
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: vector.Empty}
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return r.snapshot().Len()
}

// Get returns the definition at index i.
func (r *Registry) Get(i int) (*Value, bool) {
	v, ok := r.snapshot().Index(i)
	if !ok {
		return nil, false
	}
	return v.(*Value), true
}

// Names returns the target names of all definitions in registration order.
// Names registered more than once appear once, at their first position.
func (r *Registry) Names() []string {
	var names []string
	seen := make(map[string]bool)
	r.Each(func(_ int, def *Value) bool {
		name := def.DefinitionName()
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return true
	})
	return names
}

// Each calls fn for every definition in a snapshot of r, in registration
// order, until fn returns false.
func (r *Registry) Each(fn func(i int, def *Value) bool) {
	i := 0
	for it := r.snapshot().Iterator(); it.HasElem(); it.Next() {
		if !fn(i, it.Elem().(*Value)) {
			return
		}
		i++
	}
}

// append adds def and returns its index.  Callers must have validated def.
func (r *Registry) append(def *Value) int {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.defs = r.defs.Conj(def)
	return r.defs.Len() - 1
}

func (r *Registry) snapshot() vector.Vector {
	r.mut.RLock()
	defer r.mut.RUnlock()
	return r.defs
}
