// Copyright © 2024 The Arrow authors

package profiler

import (
	"regexp"

	"github.com/orion-engine/arrow/lisp"
)

// Labeler provides an alternative label for a reduction in the trace.  An
// empty label selects the default.
type Labeler func(v *lisp.Value) string

// WithLabeler sets the labeler for tracing spans.
func WithLabeler(labeler Labeler) Option {
	return func(p *profiler) {
		p.labeler = labeler
	}
}

// WithEffectLabeler prefixes labels with the effect class of the operation,
// as in "output:print" or "definition:main".
func WithEffectLabeler() Option {
	return WithLabeler(effectLabeler)
}

func effectLabeler(v *lisp.Value) string {
	name := defaultName(v)
	if name == "" {
		return ""
	}
	return v.Op.Effect().String() + ":" + name
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
