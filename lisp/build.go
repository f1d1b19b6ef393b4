// Copyright © 2024 The Arrow authors

package lisp

import (
	"errors"
	"strconv"
	"strings"

	"github.com/orion-engine/arrow/parser/ast"
	"github.com/orion-engine/arrow/parser/token"
)

// Classify turns literal source text into a value.  Decimal literals are
// numbers, double quoted text is text, t and nil are booleans and anything
// else is a symbol.  A leading quote mark on a word is dropped, so 'x is the
// symbol x and 't is the symbol t.
func Classify(text string) *Value {
	switch {
	case token.IsDecimal(text):
		if x, ok := parseDecimal(text); ok {
			return Number(x)
		}
		return Symbol(text)
	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		return Text(text[1 : len(text)-1])
	case text == "t":
		return Boolean(true)
	case text == "nil":
		return Boolean(false)
	case len(text) > 1 && strings.HasPrefix(text, "'"):
		return Symbol(text[1:])
	default:
		return Symbol(text)
	}
}

// parseDecimal parses a decimal literal.  Literals beyond the range of a
// float64 become infinities.
func parseDecimal(text string) (float64, bool) {
	x, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return x, true
}

// ClassifyToken classifies the text of tok and records its location.
func ClassifyToken(tok *token.Token) *Value {
	v := Classify(tok.Text)
	v.Source = tok.Source
	return v
}

// Build converts a parsed node into a call value.  Operation names are looked
// up in the operation table and operand counts are checked.
func Build(n *ast.Node) (*Value, error) {
	if n.Name == nil {
		return nil, SyntaxError(n.Source, "node has no name")
	}
	op, ok := LookupOp(n.Name.Text)
	if !ok {
		err := Errorf(CondUnknownOperation, "unknown operation: %s", n.Name.Text)
		return nil, err.withSource(n.Name.Source)
	}
	operands := make([]*Value, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Node != nil {
			v, err := Build(c.Node)
			if err != nil {
				return nil, err
			}
			operands = append(operands, v)
			continue
		}
		operands = append(operands, ClassifyToken(c.Literal))
	}
	if err := checkArity(op, len(operands)); err != nil {
		return nil, err.withSource(n.Source)
	}
	call := NewCall(op, operands...)
	call.Source = n.Source
	return call, nil
}

// BuildAll converts every node in nodes.  Nothing is returned unless every
// node builds successfully.
func BuildAll(nodes []*ast.Node) ([]*Value, error) {
	vals := make([]*Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := Build(n)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}
