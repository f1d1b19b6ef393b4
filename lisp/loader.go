// Copyright © 2024 The Arrow authors

package lisp

import (
	"io"

	"github.com/orion-engine/arrow/parser/ast"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of nodes that it
	// contains.
	Read(name string, r io.Reader) ([]*ast.Node, error)
}

// LocationReader is like Reader but assigns physical locations to the tokens
// from r.
type LocationReader interface {
	// ReadLocation the contents of r, associated with physical location loc,
	// and return the sequence of nodes that it contains.
	ReadLocation(name string, loc string, r io.Reader) ([]*ast.Node, error)
}

func (r *Runtime) read(name, loc string, src io.Reader) ([]*ast.Node, error) {
	if r.Reader == nil {
		return nil, Errorf(CondSyntaxError, "no reader configured")
	}
	if lr, ok := r.Reader.(LocationReader); ok && loc != "" {
		return lr.ReadLocation(name, loc, src)
	}
	return r.Reader.Read(name, src)
}
