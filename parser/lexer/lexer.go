// Copyright © 2024 The Arrow authors

package lexer

import (
	"fmt"
	"io"
	"unicode"

	"github.com/orion-engine/arrow/parser/token"
)

// Lexer splits Arrow source text into tokens.  Parentheses delimit nesting,
// whitespace separates words and a double quote begins a string literal that
// runs to the next double quote.
type Lexer struct {
	scanner *token.Scanner
	done    bool
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next token in the stream.  After an EOF or ERROR
// token has been returned every subsequent call returns EOF.
func (lex *Lexer) ReadToken() *token.Token {
	if lex.done {
		return lex.emit(token.EOF, "")
	}
	tok := lex.readToken()
	if tok.Type == token.EOF || tok.Type == token.ERROR {
		lex.done = true
	}
	return tok
}

// ReadAll returns all remaining tokens.  The final token is always EOF or
// ERROR.
func (lex *Lexer) ReadAll() []*token.Token {
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ERROR {
			return toks
		}
	}
}

func (lex *Lexer) readToken() *token.Token {
	lex.scanner.AcceptSeqSpace()
	lex.scanner.Ignore()
	if !lex.scanner.Accept(func(rune) bool { return true }) {
		if lex.scanner.EOF() {
			if err := lex.scanner.Err(); err != nil {
				return lex.emitError(err)
			}
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.ScanRune(); err != nil {
			return lex.emitError(err)
		}
	}
	switch lex.scanner.Rune() {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '"':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' })
		if !lex.scanner.AcceptRune('"') {
			if lex.scanner.EOF() {
				return lex.errorf("unterminated string literal")
			}
			return lex.errorf("invalid string literal: %v", lex.scanner.ScanRune())
		}
		return lex.scanner.EmitToken(token.STRING)
	default:
		lex.scanner.AcceptSeq(isWordRune)
		if token.IsDecimal(lex.scanner.Text()) {
			return lex.scanner.EmitToken(token.NUMBER)
		}
		return lex.scanner.EmitToken(token.SYMBOL)
	}
}

func isWordRune(c rune) bool {
	return !unicode.IsSpace(c) && c != '(' && c != ')' && c != '"'
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == io.EOF {
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}
