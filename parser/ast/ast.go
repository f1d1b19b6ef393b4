// Copyright © 2024 The Arrow authors

// Package ast defines the call tree produced by Arrow readers.  A program is a
// sequence of nodes; each node is a parenthesized call with a leading name
// word followed by children that are either nested nodes or literal tokens.
package ast

import (
	"strings"

	"github.com/orion-engine/arrow/parser/token"
)

// Node is a parenthesized call.
type Node struct {
	// Name is the word immediately following the opening parenthesis.
	Name     *token.Token
	Children []*Child
	// Source is the location of the opening parenthesis.
	Source *token.Location
}

// Child is a single operand of a Node.  Exactly one of Node and Literal is
// non-nil.
type Child struct {
	Node    *Node
	Literal *token.Token
}

// NodeChild wraps n as a Child.
func NodeChild(n *Node) *Child {
	return &Child{Node: n}
}

// LiteralChild wraps tok as a Child.
func LiteralChild(tok *token.Token) *Child {
	return &Child{Literal: tok}
}

// IsNode returns true if c is a nested call.
func (c *Child) IsNode() bool {
	return c.Node != nil
}

// Location returns the source location of c.
func (c *Child) Location() *token.Location {
	if c.Node != nil {
		return c.Node.Source
	}
	if c.Literal != nil {
		return c.Literal.Source
	}
	return nil
}

func (c *Child) String() string {
	if c.Node != nil {
		return c.Node.String()
	}
	if c.Literal != nil {
		return c.Literal.Text
	}
	return "<nil>"
}

// String renders n in source form with single spaces between words.
func (n *Node) String() string {
	var buf strings.Builder
	n.write(&buf)
	return buf.String()
}

func (n *Node) write(buf *strings.Builder) {
	buf.WriteByte('(')
	if n.Name != nil {
		buf.WriteString(n.Name.Text)
	}
	for _, c := range n.Children {
		buf.WriteByte(' ')
		if c.Node != nil {
			c.Node.write(buf)
			continue
		}
		buf.WriteString(c.String())
	}
	buf.WriteByte(')')
}

// Equal reports whether n and other have the same shape and token text.
// Source locations are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if (n.Name == nil) != (other.Name == nil) {
		return false
	}
	if n.Name != nil && (n.Name.Type != other.Name.Type || n.Name.Text != other.Name.Text) {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i, c := range n.Children {
		d := other.Children[i]
		if c.IsNode() != d.IsNode() {
			return false
		}
		if c.IsNode() {
			if !c.Node.Equal(d.Node) {
				return false
			}
			continue
		}
		if c.Literal.Type != d.Literal.Type || c.Literal.Text != d.Literal.Text {
			return false
		}
	}
	return true
}

// Walk calls fn on n and every nested node in depth-first order.  Walk stops
// descending when fn returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		if c.Node != nil {
			Walk(c.Node, fn)
		}
	}
}
