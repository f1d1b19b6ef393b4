// Copyright © 2024 The Arrow authors

// Package profiler provides lisp.Profiler implementations that annotate
// operation reductions and definition bodies with tracing spans, pprof labels
// or callgrind records.
package profiler

import (
	"errors"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	labeler    Labeler
}

var _ lisp.Profiler = &profiler{}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(v *lisp.Value) func() {
	return func() {}
}

// prettyName returns the display label for v and its canonical name.  The
// label falls back to the canonical name when no labeler is configured or the
// labeler has nothing to say.
func (p *profiler) prettyName(v *lisp.Value) (string, string) {
	name := defaultName(v)
	if name == "" {
		return "", ""
	}
	label := name
	if p.labeler != nil {
		label = sanitizeLabel(p.labeler(v))
	}
	if label == "" {
		label = name
	}
	return label, name
}

// defaultName is the operation name of a call, or the target name of a
// definition.
func defaultName(v *lisp.Value) string {
	if v.Type != lisp.LCall {
		return ""
	}
	if v.IsDefinition() {
		if name := v.DefinitionName(); name != "" {
			return name
		}
	}
	return v.Op.String()
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.Value) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

func getSourceLoc(v *lisp.Value) *token.Location {
	if v.Source != nil {
		return v.Source
	}
	for _, c := range v.Cells {
		if c != nil && c.Source != nil {
			return c.Source
		}
	}
	return nil
}

func getSource(v *lisp.Value) (string, int) {
	if loc := getSourceLoc(v); loc != nil {
		return loc.File, loc.Line
	}
	return "no-source", 0
}
