// Copyright © 2024 The Arrow authors

package profiler

import (
	"github.com/orion-engine/arrow/lisp"
)

// SkipFilter reports whether a reduction should be left out of the profile.
type SkipFilter func(v *lisp.Value) bool

// Only calls are profiled.  Literals never reach a profiler through the
// evaluator, but a host may call Start directly.
func defaultSkipFilter(v *lisp.Value) bool {
	switch v.Type {
	case lisp.LCall:
		return !v.Op.IsValid()
	case lisp.LNumber, lisp.LText, lisp.LBoolean, lisp.LSymbol, lisp.LBinding, lisp.LHandle:
		return true
	default:
		return true
	}
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithEffectFilter only traces operations with one of the given effect
// classes.  Definition bodies have the definition effect.
func WithEffectFilter(effects ...lisp.Effect) Option {
	keep := make(map[lisp.Effect]bool, len(effects))
	for _, e := range effects {
		keep[e] = true
	}
	return WithSkipFilter(func(v *lisp.Value) bool {
		return !keep[v.Op.Effect()]
	})
}

// WithDefinitionFilter only traces definition bodies run by Invoke.
func WithDefinitionFilter() Option {
	return WithEffectFilter(lisp.EffectDefinition)
}
