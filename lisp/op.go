// Copyright © 2024 The Arrow authors

package lisp

import (
	"fmt"
	"sort"
)

// OpID identifies an entry in the fixed operation table.
type OpID uint8

// Built-in operations.
const (
	OpInvalid OpID = iota
	OpAdd
	OpSub
	OpMul
	OpConcat
	OpEqual
	OpPrint
	OpLet
	OpProgn
	OpReturn
	OpDefun
	OpNetConnect
	OpNetSend
	OpNetReceive
	numOps
)

// Effect classifies the observable side effects of an operation.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectOutput
	EffectScope
	EffectNetwork
	EffectDefinition
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectOutput:
		return "output"
	case EffectScope:
		return "scope"
	case EffectNetwork:
		return "network"
	case EffectDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// opRule implements an operation.  Operands are passed unevaluated; each rule
// decides which operands to reduce and in which environment.
type opRule func(env *Env, args []*Value) (*Value, error)

type langOp struct {
	id      OpID
	name    string
	minArgs int
	maxArgs int // negative for variadic operations
	effect  Effect
	rule    opRule
	doc     string
}

var (
	opTable [numOps]*langOp
	opIndex map[string]OpID
)

// The table is populated in init because the rules reduce operands, and
// reduction consults the table.
func init() {
	langOps := []*langOp{
		{OpAdd, "+", 2, 2, EffectNone, opAdd,
			`Returns the sum of two numbers. Both operands are reduced left to
			right and coerced to numbers.`},
		{OpSub, "-", 2, 2, EffectNone, opSub,
			`Returns the first operand minus the second. Both operands are
			reduced left to right and coerced to numbers.`},
		{OpMul, "*", 2, 2, EffectNone, opMul,
			`Returns the product of two numbers. Both operands are reduced
			left to right and coerced to numbers.`},
		{OpConcat, "concat", 2, 2, EffectNone, opConcat,
			`Returns text formed by joining the rendered text of both
			operands. Numbers render in shortest decimal form and booleans
			render as t or nil.`},
		{OpEqual, "equal", 2, 2, EffectNone, opEqual,
			`Returns t if both operands render to the same text and nil
			otherwise. (equal 2 "2") is t.`},
		{OpPrint, "print", 1, 1, EffectOutput, opPrint,
			`Writes the rendered text of its operand followed by a newline to
			standard output and returns nil.`},
		{OpLet, "let", 3, 3, EffectScope, opLet,
			`Binds a name for the evaluation of a body. The first operand is
			a literal symbol naming the binding, the second is reduced in the
			enclosing scope and the third is reduced with the binding in
			place. The binding is removed when let returns, even when the
			body fails.`},
		{OpProgn, "progn", 1, -1, EffectNone, opProgn,
			`Reduces each operand in order and returns the value of the
			last.`},
		{OpReturn, "return", 1, 1, EffectNone, opReturn,
			`Returns the value of its operand.`},
		{OpDefun, "defun", 2, -1, EffectDefinition, nil,
			`Defines a named function. The first operand is the target name
			and the remaining operands form the body. Definitions are stored
			in the registry and run when a matching name is invoked; the
			body value of the last operand is the result. A defun reduced
			directly evaluates to itself.`},
		{OpNetConnect, "net-connect", 2, 2, EffectNetwork, opNetConnect,
			`Opens a subscription to a topic on a remote broker and returns a
			handle. The first operand is the remote address and the second
			is the topic name.`},
		{OpNetSend, "net-send", 2, 2, EffectNetwork, opNetSend,
			`Publishes the rendered text of the second operand through the
			handle given as the first operand. Returns t if the message was
			accepted and nil otherwise.`},
		{OpNetReceive, "net-receive", 1, 1, EffectNetwork, opNetReceive,
			`Returns the next pending message on a handle as text, or nil
			when no message is waiting. net-receive never blocks.`},
	}
	opIndex = make(map[string]OpID, len(langOps))
	for _, op := range langOps {
		opTable[op.id] = op
		opIndex[op.name] = op.id
	}
}

// LookupOp returns the operation with the given name.
func LookupOp(name string) (OpID, bool) {
	id, ok := opIndex[name]
	return id, ok
}

// Ops returns the names of all operations in sorted order.
func Ops() []string {
	names := make([]string, 0, len(opIndex))
	for name := range opIndex {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (op OpID) def() *langOp {
	if op >= numOps {
		return nil
	}
	return opTable[op]
}

// IsValid returns true if op names an entry in the operation table.
func (op OpID) IsValid() bool {
	return op.def() != nil
}

func (op OpID) String() string {
	if d := op.def(); d != nil {
		return d.name
	}
	return fmt.Sprintf("op%d", uint8(op))
}

// Doc returns the documentation for op.
func (op OpID) Doc() string {
	if d := op.def(); d != nil {
		return d.doc
	}
	return ""
}

// Effect returns the side effect class of op.
func (op OpID) Effect() Effect {
	if d := op.def(); d != nil {
		return d.effect
	}
	return EffectNone
}

// Arity returns the minimum and maximum number of operands accepted by op.
// The maximum is negative for variadic operations.
func (op OpID) Arity() (min, max int) {
	if d := op.def(); d != nil {
		return d.minArgs, d.maxArgs
	}
	return 0, 0
}

// FormatArity renders the arity of op for documentation.
func (op OpID) FormatArity() string {
	min, max := op.Arity()
	switch {
	case max < 0:
		return fmt.Sprintf("%d or more", min)
	case min == max:
		return fmt.Sprintf("%d", min)
	default:
		return fmt.Sprintf("%d to %d", min, max)
	}
}

func checkArity(op OpID, n int) *Error {
	d := op.def()
	if d == nil {
		return Errorf(CondUnknownOperation, "unknown operation: %v", op)
	}
	if n < d.minArgs || (d.maxArgs >= 0 && n > d.maxArgs) {
		err := Errorf(CondArityError, "expected %s operands, got %d", op.FormatArity(), n)
		err.Op = d.name
		return err
	}
	return nil
}
