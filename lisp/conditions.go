// Copyright © 2024 The Arrow authors

package lisp

// Error condition names.  These are stable API for programmatic error
// classification by embedders and front ends.
const (
	CondSyntaxError      = "syntax-error"
	CondArityError       = "arity-error"
	CondTypeMismatch     = "type-mismatch"
	CondUnboundSymbol    = "unbound-symbol"
	CondUnknownOperation = "unknown-operation"
	CondInvalidReduction = "invalid-reduction"
	CondTransportError   = "transport-error"
)

// Sentinel errors for use with errors.Is.  An *Error matches the sentinel
// with the same condition regardless of message or location.
var (
	ErrSyntax           = &Error{Cond: CondSyntaxError}
	ErrArity            = &Error{Cond: CondArityError}
	ErrTypeMismatch     = &Error{Cond: CondTypeMismatch}
	ErrUnboundSymbol    = &Error{Cond: CondUnboundSymbol}
	ErrUnknownOperation = &Error{Cond: CondUnknownOperation}
	ErrInvalidReduction = &Error{Cond: CondInvalidReduction}
	ErrTransport        = &Error{Cond: CondTransportError}
)
