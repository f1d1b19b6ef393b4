// Copyright © 2024 The Arrow authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/orion-engine/arrow/lisp"
)

// This profiler type appends labels to pprof output if pprof is enabled.  It
// does not start pprof; hosts decide when to collect a profile.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that labels the running goroutine with
// the operation being reduced.
func NewPprofAnnotator(parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(v *lisp.Value) func() {
	if p.skipTrace(v) {
		return func() {}
	}
	// Contexts are kept on the Go stack through the returned closure rather
	// than pprof.Do, which would need the evaluator to run inside a callback.
	oldContext := p.currentContext
	label, _ := p.prettyName(v)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels(
		"operation", label,
		"effect", v.Op.Effect().String(),
	))
	// Labels propagate to goroutines started below this point.
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
