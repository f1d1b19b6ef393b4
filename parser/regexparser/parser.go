// Copyright © 2024 The Arrow authors

/*
Package regexparser provides an Arrow reader built from parser combinators.

	node     := '(' <child>* ')'
	child    := <string> | <word> | <node>
	string   := /"[^"]*"/
	word     := /[^[:space:]()"]+/

The first child of every node must be a word that is not a number.
*/
package regexparser

import (
	"io"
	"sort"
	"unicode/utf8"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/ast"
	"github.com/orion-engine/arrow/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]*ast.Node, error) {
	return p.ReadLocation(name, "", r)
}

func (p *parsecReader) ReadLocation(name string, loc string, r io.Reader) ([]*ast.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(newSourceMap(name, loc, b))
}

const (
	termOpen         = "OPENP"
	termClose        = "CLOSEP"
	termString       = "STRING"
	termUnterminated = "UNTERMINATED"
	termWord         = "WORD"
)

// rawNode is the intermediate result of the node grammar.  Conversion into
// ast.Node happens after a complete top-level form has been matched so that
// errors can be reported against the outermost node.
type rawNode struct {
	open     *parsec.Terminal
	children []parsec.ParsecNode
	closed   bool
}

// Parse parses every top-level node in text.  Locations in the returned nodes
// refer to name.
func Parse(name string, text []byte) ([]*ast.Node, error) {
	return parse(newSourceMap(name, "", text))
}

func parse(src *sourceMap) ([]*ast.Node, error) {
	var nodes []*ast.Node
	s := parsec.NewScanner(src.text)
	top := newParsecParser()
	for {
		root, news := top(s)
		if root == nil {
			break
		}
		s = news
		raw, ok := single(root)
		if !ok {
			return nil, lisp.SyntaxError(src.location(s.GetCursor()), "unexpected parse result")
		}
		n, err := src.convert(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	_, s = s.SkipWS()
	if s.Endof() {
		return nodes, nil
	}
	loc := src.location(s.GetCursor())
	if b, _ := s.Match(`\)`); len(b) > 0 {
		return nil, lisp.SyntaxError(loc, "unmatched closing parenthesis")
	}
	if b, _ := s.Match(`"[^"]*$`); len(b) > 0 {
		return nil, lisp.SyntaxError(loc, "unterminated string literal")
	}
	return nil, lisp.SyntaxError(loc, "literal outside of a node")
}

func newParsecParser() parsec.Parser {
	openP := parsec.Atom("(", termOpen)
	closeP := parsec.Atom(")", termClose)
	str := parsec.Token(`"[^"]*"`, termString)
	unterminated := parsec.Token(`"[^"]*$`, termUnterminated)
	word := parsec.Token(`[^\s()"]+`, termWord)

	var node, unclosed parsec.Parser // forward declaration allows for recursive parsing
	child := parsec.OrdChoice(first, str, unterminated, word, &node, &unclosed)
	children := parsec.Kleene(nil, child)
	node = parsec.And(nodify(true), openP, children, closeP)
	// Error matching case comes last because it has the lowest precedence.
	unclosed = parsec.And(nodify(false), openP, children, parsec.Parser(end))
	return parsec.OrdChoice(first, &node, &unclosed)
}

// first unwraps the single match of an OrdChoice.  Without a Nodify the
// combinator yields the match wrapped in a one element list.
func first(ns []parsec.ParsecNode) parsec.ParsecNode {
	if len(ns) == 0 {
		return nil
	}
	return ns[0]
}

// end matches the end of input, ignoring trailing whitespace.
func end(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
	_, news := s.SkipWS()
	if news.Endof() {
		return &parsec.Terminal{Name: "EOF", Position: news.GetCursor()}, news
	}
	return nil, s
}

func nodify(closed bool) parsec.Nodify {
	return func(ns []parsec.ParsecNode) parsec.ParsecNode {
		if len(ns) < 2 {
			return nil
		}
		open, ok := ns[0].(*parsec.Terminal)
		if !ok {
			return nil
		}
		return &rawNode{
			open:     open,
			children: flatten(ns[1]),
			closed:   closed,
		}
	}
}

// single returns the one raw node matched by a top-level parse.
func single(root parsec.ParsecNode) (*rawNode, bool) {
	ns := flatten(root)
	if len(ns) != 1 {
		return nil, false
	}
	raw, ok := ns[0].(*rawNode)
	return raw, ok
}

// flatten unwraps the nested node lists produced by combinators into a flat
// list of terminals and raw nodes.
func flatten(n parsec.ParsecNode) []parsec.ParsecNode {
	switch n := n.(type) {
	case []parsec.ParsecNode:
		var out []parsec.ParsecNode
		for _, c := range n {
			out = append(out, flatten(c)...)
		}
		return out
	case nil:
		return nil
	default:
		return []parsec.ParsecNode{n}
	}
}

// sourceMap converts byte offsets into source locations.
type sourceMap struct {
	file  string
	path  string
	text  []byte
	lines []int // offsets of the first byte of each line
}

func newSourceMap(file, path string, text []byte) *sourceMap {
	m := &sourceMap{file: file, path: path, text: text, lines: []int{0}}
	for i, b := range text {
		if b == '\n' {
			m.lines = append(m.lines, i+1)
		}
	}
	return m
}

func (m *sourceMap) location(pos int) *token.Location {
	line := sort.Search(len(m.lines), func(i int) bool { return m.lines[i] > pos }) - 1
	if line < 0 {
		line = 0
	}
	start := m.lines[line]
	end := pos
	if end > len(m.text) {
		end = len(m.text)
	}
	return &token.Location{
		File: m.file,
		Path: m.path,
		Pos:  pos,
		Line: line + 1,
		Col:  utf8.RuneCount(m.text[start:end]) + 1,
	}
}

func (m *sourceMap) token(term *parsec.Terminal) *token.Token {
	tok := &token.Token{
		Text:   term.Value,
		Source: m.location(term.Position),
	}
	switch {
	case term.Name == termString:
		tok.Type = token.STRING
	case token.IsDecimal(term.Value):
		tok.Type = token.NUMBER
	default:
		tok.Type = token.SYMBOL
	}
	return tok
}

func (m *sourceMap) convert(raw *rawNode) (*ast.Node, error) {
	loc := m.location(raw.open.Position)
	if err := m.check(raw); err != nil {
		return nil, err
	}
	if !raw.closed {
		return nil, lisp.IncompleteError(loc, "unclosed node")
	}
	return m.build(raw)
}

// check reports unterminated strings anywhere beneath raw before the
// incomplete-input condition is considered.
func (m *sourceMap) check(raw *rawNode) error {
	for _, c := range raw.children {
		switch c := c.(type) {
		case *parsec.Terminal:
			if c.Name == termUnterminated {
				return lisp.SyntaxError(m.location(c.Position), "unterminated string literal")
			}
		case *rawNode:
			if err := m.check(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *sourceMap) build(raw *rawNode) (*ast.Node, error) {
	loc := m.location(raw.open.Position)
	if !raw.closed {
		return nil, lisp.IncompleteError(loc, "unclosed node")
	}
	n := &ast.Node{Source: loc}
	if len(raw.children) == 0 {
		return nil, lisp.SyntaxError(loc, "node has no name")
	}
	for i, c := range raw.children {
		switch c := c.(type) {
		case *parsec.Terminal:
			tok := m.token(c)
			if i == 0 {
				if tok.Type != token.SYMBOL {
					return nil, lisp.SyntaxError(tok.Source, "node has no name: found %v", tok)
				}
				n.Name = tok
				continue
			}
			n.Children = append(n.Children, ast.LiteralChild(tok))
		case *rawNode:
			if i == 0 {
				return nil, lisp.SyntaxError(m.location(c.open.Position), "node has no name: found nested node")
			}
			child, err := m.build(c)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, ast.NodeChild(child))
		default:
			return nil, lisp.SyntaxError(loc, "unexpected parse result")
		}
	}
	return n, nil
}
