// Copyright © 2024 The Arrow authors

package lisp

import (
	"math"
	"strconv"
	"strings"

	"github.com/orion-engine/arrow/parser/token"
)

// LType is the type of a Value
type LType uint8

// Possible Value types.
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNumber values hold a float64 in the Num field.
	LNumber
	// LText values hold a string in the Str field.
	LText
	// LBoolean values hold a bool in the Bool field.  They render as t and
	// nil.
	LBoolean
	// LSymbol values hold a name in the Str field.  A symbol is resolved
	// only when an operation asks for its value.
	LSymbol
	// LCall values hold an OpID in the Op field and unevaluated operands in
	// Cells.
	LCall
	// LBinding values pair a name (Str) with a value (Cells[0]).  Bindings
	// only exist inside an Env.
	LBinding
	// LHandle values hold an opaque transport Handle in the Native field.
	LHandle
	// The number of types, useful for testing
	numLTypes
)

var typeStrings = []string{
	LInvalid: "INVALID",
	LNumber:  "number",
	LText:    "text",
	LBoolean: "boolean",
	LSymbol:  "symbol",
	LCall:    "call",
	LBinding: "binding",
	LHandle:  "handle",
}

func (t LType) String() string {
	if t >= numLTypes {
		return typeStrings[LInvalid]
	}
	return typeStrings[t]
}

// Value is the interpreter's tagged value.  Type selects which of the
// remaining fields are meaningful.  Values are not modified after they are
// constructed.
type Value struct {
	Type LType

	Num  float64
	Str  string
	Bool bool
	Op   OpID

	Cells []*Value

	// Native holds a transport Handle for LHandle values.
	Native interface{}

	// Source is the location of the text the value was built from, when
	// known.
	Source *token.Location
}

// Number returns an LNumber with value x.
func Number(x float64) *Value {
	return &Value{Type: LNumber, Num: x}
}

// Text returns an LText with content s.
func Text(s string) *Value {
	return &Value{Type: LText, Str: s}
}

// Boolean returns an LBoolean.
func Boolean(b bool) *Value {
	return &Value{Type: LBoolean, Bool: b}
}

// Symbol returns an LSymbol with the given name.
func Symbol(name string) *Value {
	return &Value{Type: LSymbol, Str: name}
}

// NewCall returns an LCall applying op to the given operands.
func NewCall(op OpID, operands ...*Value) *Value {
	return &Value{Type: LCall, Op: op, Cells: operands}
}

// Binding returns an LBinding associating name with v.
func Binding(name string, v *Value) *Value {
	return &Value{Type: LBinding, Str: name, Cells: []*Value{v}}
}

// HandleValue wraps a transport handle.
func HandleValue(h Handle) *Value {
	return &Value{Type: LHandle, Native: h}
}

// Handle returns the transport handle held by v.
func (v *Value) Handle() (Handle, bool) {
	if v.Type != LHandle {
		return nil, false
	}
	h, ok := v.Native.(Handle)
	return h, ok
}

// IsDefinition returns true if v is a defun call.
func (v *Value) IsDefinition() bool {
	return v.Type == LCall && v.Op == OpDefun
}

// DefinitionName returns the target name of a defun call as written.  The
// empty string is returned for any other value.
func (v *Value) DefinitionName() string {
	if !v.IsDefinition() || len(v.Cells) == 0 {
		return ""
	}
	switch name := v.Cells[0]; name.Type {
	case LSymbol, LText:
		return name.Str
	case LCall, LBinding, LHandle:
		return ""
	default:
		return name.String()
	}
}

// FormatNumber renders x in its shortest decimal form, without exponent.
func FormatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// FormatBoolean renders b as t or nil.
func FormatBoolean(b bool) string {
	if b {
		return "t"
	}
	return "nil"
}

// String renders v for display.  Text is quoted, calls are rendered in
// source form.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Type {
	case LNumber:
		return FormatNumber(v.Num)
	case LText:
		return strconv.Quote(v.Str)
	case LBoolean:
		return FormatBoolean(v.Bool)
	case LSymbol:
		return v.Str
	case LCall:
		var buf strings.Builder
		buf.WriteString("(")
		buf.WriteString(v.Op.String())
		for _, c := range v.Cells {
			buf.WriteString(" ")
			buf.WriteString(c.String())
		}
		buf.WriteString(")")
		return buf.String()
	case LBinding:
		var val *Value
		if len(v.Cells) > 0 {
			val = v.Cells[0]
		}
		return "<binding " + v.Str + " " + val.String() + ">"
	case LHandle:
		return "<handle>"
	default:
		return "<invalid>"
	}
}

// Equal returns true if v and other are structurally identical.  Source
// locations are ignored.  Handles are equal only when they wrap the same
// handle.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LNumber:
		return v.Num == other.Num
	case LText, LSymbol:
		return v.Str == other.Str
	case LBoolean:
		return v.Bool == other.Bool
	case LHandle:
		return v.Native == other.Native
	case LCall:
		if v.Op != other.Op {
			return false
		}
	case LBinding:
		if v.Str != other.Str {
			return false
		}
	default:
		return true
	}
	if len(v.Cells) != len(other.Cells) {
		return false
	}
	for i := range v.Cells {
		if !v.Cells[i].Equal(other.Cells[i]) {
			return false
		}
	}
	return true
}
