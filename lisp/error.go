// Copyright © 2024 The Arrow authors

package lisp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orion-engine/arrow/parser/token"
)

// ErrIncomplete is wrapped by syntax errors caused by input that ended inside
// an unclosed node.  Interactive front ends use it to request a continuation
// line.
var ErrIncomplete = errors.New("unexpected end of input")

// Error is the error type returned by every interpreter operation.  Cond
// classifies the failure (see the Cond constants) and Op names the operation
// that failed, when one is known.
type Error struct {
	Cond   string
	Msg    string
	Op     string
	Source *token.Location
	Err    error
}

// Errorf returns an *Error with condition cond and a formatted message.
func Errorf(cond string, format string, v ...interface{}) *Error {
	return &Error{Cond: cond, Msg: fmt.Sprintf(format, v...)}
}

// SyntaxError returns a syntax-error located at loc.
func SyntaxError(loc *token.Location, format string, v ...interface{}) *Error {
	err := Errorf(CondSyntaxError, format, v...)
	err.Source = loc
	return err
}

// IncompleteError returns a syntax-error located at loc which wraps
// ErrIncomplete.
func IncompleteError(loc *token.Location, format string, v ...interface{}) *Error {
	err := SyntaxError(loc, format, v...)
	err.Err = ErrIncomplete
	return err
}

// IsIncomplete returns true if err was caused by input ending inside an
// unclosed node.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

func (e *Error) Error() string {
	var buf strings.Builder
	if e.Source != nil {
		buf.WriteString(e.Source.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Cond)
	if e.Op != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Op)
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg != "" {
		buf.WriteString(": ")
		buf.WriteString(msg)
	}
	return buf.String()
}

// Condition returns the error condition name.
func (e *Error) Condition() string {
	return e.Cond
}

// Is reports whether target is an *Error with the same condition as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Cond == e.Cond
}

func (e *Error) Unwrap() error {
	return e.Err
}

// withOp annotates e with the name of the failing operation unless an inner
// operation has already been recorded.
func (e *Error) withOp(op string) *Error {
	if e.Op == "" {
		e.Op = op
	}
	return e
}

// withSource annotates e with loc unless a more specific location is already
// recorded.
func (e *Error) withSource(loc *token.Location) *Error {
	if e.Source == nil {
		e.Source = loc
	}
	return e
}

// asError converts err into an *Error, wrapping foreign errors with the
// given condition.
func asError(cond string, err error) *Error {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr
	}
	return &Error{Cond: cond, Err: err}
}
