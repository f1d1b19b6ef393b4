// Copyright © 2024 The Arrow authors

package rdparser

import (
	"io"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/ast"
	"github.com/orion-engine/arrow/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*ast.Node, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// ReadLocation implements lisp.LocationReader.
func (*reader) ReadLocation(name string, loc string, r io.Reader) ([]*ast.Node, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	p := New(s)
	return p.ParseProgram()
}

// Parser reads Arrow call trees from a token stream.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse reads one top-level node.  Parse returns io.EOF when the input
// contains no more tokens.
func (p *Parser) Parse() (*ast.Node, error) {
	tok := p.src.Peek()
	switch tok.Type {
	case token.EOF:
		return nil, io.EOF
	case token.PAREN_L:
		return p.ParseNode()
	case token.PAREN_R:
		p.src.Scan()
		return nil, lisp.SyntaxError(tok.Source, "unmatched closing parenthesis")
	case token.ERROR, token.INVALID:
		p.src.Scan()
		return nil, lisp.SyntaxError(tok.Source, "%s", tok.Text)
	default:
		p.src.Scan()
		return nil, lisp.SyntaxError(tok.Source, "literal outside of a node: %s", tok.Text)
	}
}

// ParseProgram parses a series of top-level nodes.  Empty input produces an
// empty program.
func (p *Parser) ParseProgram() ([]*ast.Node, error) {
	var nodes []*ast.Node
	for {
		n, err := p.Parse()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

// ParseNode parses a parenthesized call.  The next token in the stream must
// be an opening parenthesis.
func (p *Parser) ParseNode() (*ast.Node, error) {
	if !p.src.AcceptType(token.PAREN_L) {
		tok := p.src.Peek()
		return nil, lisp.SyntaxError(tok.Source, "expected ( but found %v", tok)
	}
	open := p.src.Token
	n := &ast.Node{Source: open.Source}

	name := p.src.Peek()
	switch name.Type {
	case token.SYMBOL:
		p.src.Scan()
		n.Name = p.src.Token
	case token.EOF:
		return nil, lisp.IncompleteError(open.Source, "unclosed node")
	case token.PAREN_R:
		p.src.Scan()
		return nil, lisp.SyntaxError(open.Source, "node has no name")
	case token.ERROR, token.INVALID:
		p.src.Scan()
		return nil, lisp.SyntaxError(name.Source, "%s", name.Text)
	default:
		return nil, lisp.SyntaxError(name.Source, "node has no name: found %v", name)
	}

	for {
		tok := p.src.Peek()
		switch tok.Type {
		case token.PAREN_R:
			p.src.Scan()
			return n, nil
		case token.PAREN_L:
			child, err := p.ParseNode()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, ast.NodeChild(child))
		case token.SYMBOL, token.NUMBER, token.STRING:
			p.src.Scan()
			n.Children = append(n.Children, ast.LiteralChild(p.src.Token))
		case token.EOF:
			return nil, lisp.IncompleteError(open.Source, "unclosed node")
		default:
			p.src.Scan()
			return nil, lisp.SyntaxError(tok.Source, "%s", tok.Text)
		}
	}
}
