// Copyright © 2024 The Arrow authors

package parser

import (
	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/rdparser"
	"github.com/orion-engine/arrow/parser/regexparser"
)

// Option configures the reader returned by NewReader.
type Option func(*options)

type options struct {
	combinators bool
}

// WithCombinators selects the parser-combinator reader instead of the default
// recursive descent reader.  Both readers produce identical trees.
func WithCombinators() Option {
	return func(o *options) {
		o.combinators = true
	}
}

// NewReader returns a new lisp.Reader
func NewReader(opts ...Option) lisp.Reader {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.combinators {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}

// ReaderByName returns the reader registered under name ("rd" or "parsec").
// An empty name selects the default reader.
func ReaderByName(name string) (lisp.Reader, bool) {
	switch name {
	case "", "rd":
		return NewReader(), true
	case "parsec":
		return NewReader(WithCombinators()), true
	default:
		return nil, false
	}
}
