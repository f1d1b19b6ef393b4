// Copyright © 2024 The Arrow authors

package rdparser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	tests := []struct {
		source string
		output []string
	}{
		{``, nil},
		{"  \n\t", nil},
		{`(+ 2 3)`, []string{`(+ 2 3)`}},
		{`(* 3 (+ 1 2))`, []string{`(* 3 (+ 1 2))`}},
		{`(concat "H W" 2)`, []string{`(concat "H W" 2)`}},
		{`(let 'x 2 (+ x 2))`, []string{`(let 'x 2 (+ x 2))`}},
		{`(print "a (b) c")`, []string{`(print "a (b) c")`}},
		{`(f)`, []string{`(f)`}},
		{"(defun 'main\n  (print 1))\n(defun 'other (return 2))", []string{
			`(defun 'main (print 1))`,
			`(defun 'other (return 2))`,
		}},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		s := token.NewScanner(name, strings.NewReader(test.source))
		nodes, err := New(s).ParseProgram()
		if !assert.NoError(t, err, "test %d", i) {
			continue
		}
		var out []string
		for _, n := range nodes {
			out = append(out, n.String())
		}
		assert.Equal(t, test.output, out, "test %d", i)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{`(+ 2`, true},
		{`(`, true},
		{`(+ 2 (* 3 4)`, true},
		{`(+ 2 3))`, false},
		{`)`, false},
		{`()`, false},
		{`("x" 1)`, false},
		{`((f))`, false},
		{`(2 3)`, false},
		{`42`, false},
		{`"abc"`, false},
		{`abc`, false},
		{`(print "abc)`, false},
	}

	for i, test := range tests {
		s := token.NewScanner("test", strings.NewReader(test.source))
		nodes, err := New(s).ParseProgram()
		if !assert.Error(t, err, "test %d: %q", i, test.source) {
			continue
		}
		assert.Nil(t, nodes, "test %d", i)
		assert.True(t, errors.Is(err, lisp.ErrSyntax), "test %d: %v", i, err)
		assert.Equal(t, test.incomplete, lisp.IsIncomplete(err), "test %d: %v", i, err)
	}
}

func TestParserLocations(t *testing.T) {
	s := token.NewScanner("test.arrow", strings.NewReader("\n  (progn\n    (print 1))"))
	nodes, err := New(s).ParseProgram()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "test.arrow:2:3", nodes[0].Source.String())
	assert.Equal(t, "progn", nodes[0].Name.Text)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "test.arrow:3:5", nodes[0].Children[0].Location().String())

	_, err = New(token.NewScanner("test.arrow", strings.NewReader("(+ 1\n 2"))).ParseProgram()
	require.Error(t, err)
	assert.Equal(t, "test.arrow:1:1: syntax-error: unclosed node", err.Error())
}

func TestReadLocation(t *testing.T) {
	r := NewReader().(lisp.LocationReader)
	nodes, err := r.ReadLocation("logical", "/path/to/file.arrow", strings.NewReader("(f 1)"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "logical", nodes[0].Source.File)
	assert.Equal(t, "/path/to/file.arrow", nodes[0].Source.Path)
}

func TestTokenSlice(t *testing.T) {
	toks := []*token.Token{
		{Type: token.PAREN_L, Text: "("},
		{Type: token.SYMBOL, Text: "return"},
		{Type: token.NUMBER, Text: "7"},
		{Type: token.PAREN_R, Text: ")"},
	}
	p := NewFromSource(NewTokenStreamSource(TokenSlice(toks)))
	nodes, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "(return 7)", nodes[0].String())
}
