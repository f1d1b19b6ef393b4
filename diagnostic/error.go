// Copyright © 2024 The Arrow authors

package diagnostic

import (
	"errors"
	"strings"

	"github.com/orion-engine/arrow/lisp"
)

// FromError converts an interpreter error into a Diagnostic.  The error
// location becomes the primary span, labelled with the error condition.
// Errors that are not *lisp.Error produce a diagnostic without spans.
func FromError(err error) Diagnostic {
	var lerr *lisp.Error
	if !errors.As(err, &lerr) {
		return Diagnostic{Severity: SeverityError, Message: err.Error()}
	}
	var msg strings.Builder
	if lerr.Op != "" {
		msg.WriteString(lerr.Op)
		msg.WriteString(": ")
	}
	switch {
	case lerr.Msg != "":
		msg.WriteString(lerr.Msg)
	case lerr.Err != nil:
		msg.WriteString(lerr.Err.Error())
	default:
		msg.WriteString(lerr.Cond)
	}
	d := Diagnostic{
		Severity: SeverityError,
		Message:  msg.String(),
	}
	if loc := lerr.Source; loc != nil && loc.Pos >= 0 {
		file := loc.File
		if loc.Path != "" {
			file = loc.Path
		}
		d.Spans = append(d.Spans, Span{
			File:  file,
			Line:  loc.Line,
			Col:   loc.Col,
			Label: lerr.Cond,
		})
	} else {
		d.Notes = append(d.Notes, "condition: "+lerr.Cond)
	}
	if lerr.Msg != "" && lerr.Err != nil && !errors.Is(lerr.Err, lisp.ErrIncomplete) {
		d.Notes = append(d.Notes, "caused by: "+lerr.Err.Error())
	}
	if lisp.IsIncomplete(err) {
		d.Notes = append(d.Notes, "the input ended before every ( was closed")
	}
	return d
}
