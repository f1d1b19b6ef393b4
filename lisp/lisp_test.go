// Copyright © 2024 The Arrow authors

package lisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLTypeString(t *testing.T) {
	for typ := LInvalid; typ < numLTypes; typ++ {
		assert.NotEmpty(t, typ.String())
	}
	assert.Equal(t, "INVALID", numLTypes.String())
	assert.Equal(t, "number", LNumber.String())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		x    float64
		text string
	}{
		{5, "5"},
		{-2, "-2"},
		{0.1, "0.1"},
		{1.5e-7, "0.00000015"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}
	for _, test := range tests {
		assert.Equal(t, test.text, FormatNumber(test.x))
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "9", Number(9).String())
	assert.Equal(t, `"H W"`, Text("H W").String())
	assert.Equal(t, "t", Boolean(true).String())
	assert.Equal(t, "nil", Boolean(false).String())
	assert.Equal(t, "x", Symbol("x").String())
	assert.Equal(t, `(concat "a" 2)`, NewCall(OpConcat, Text("a"), Number(2)).String())
	assert.Equal(t, "<binding x 2>", Binding("x", Number(2)).String())
	assert.Equal(t, "<handle>", HandleValue(nil).String())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Number(2).Equal(Number(2)))
	assert.False(t, Number(2).Equal(Text("2")))
	assert.True(t, NewCall(OpAdd, Number(1), Symbol("x")).Equal(NewCall(OpAdd, Number(1), Symbol("x"))))
	assert.False(t, NewCall(OpAdd, Number(1), Symbol("x")).Equal(NewCall(OpSub, Number(1), Symbol("x"))))
	assert.False(t, NewCall(OpAdd, Number(1), Symbol("x")).Equal(NewCall(OpAdd, Number(1), Symbol("y"))))
	assert.True(t, Binding("x", Number(1)).Equal(Binding("x", Number(1))))
	assert.False(t, Binding("x", Number(1)).Equal(Binding("y", Number(1))))
	var nilValue *Value
	assert.True(t, nilValue.Equal(nil))
	assert.False(t, Number(1).Equal(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text  string
		value *Value
	}{
		{"2", Number(2)},
		{"-2.5", Number(-2.5)},
		{`"H W"`, Text("H W")},
		{`""`, Text("")},
		{`"2"`, Text("2")},
		{"t", Boolean(true)},
		{"nil", Boolean(false)},
		{"x", Symbol("x")},
		{"'x", Symbol("x")},
		{"'t", Symbol("t")},
		{"'", Symbol("'")},
		{"inf", Symbol("inf")},
		{"1e400", Number(math.Inf(1))},
		{"-1e400", Number(math.Inf(-1))},
		{"+", Symbol("+")},
	}
	for _, test := range tests {
		assert.True(t, test.value.Equal(Classify(test.text)), "%s: %v", test.text, Classify(test.text))
	}
}

func TestDefinitionName(t *testing.T) {
	def := NewCall(OpDefun, Symbol("main"), NewCall(OpReturn, Number(1)))
	assert.True(t, def.IsDefinition())
	assert.Equal(t, "main", def.DefinitionName())
	assert.Equal(t, "greet", NewCall(OpDefun, Text("greet"), Number(1)).DefinitionName())
	assert.Equal(t, "", NewCall(OpReturn, Number(1)).DefinitionName())
}
