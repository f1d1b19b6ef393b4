// Copyright © 2024 The Arrow authors

package profiler

import (
	"testing"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestPrettyName(t *testing.T) {
	def := lisp.NewCall(lisp.OpDefun, lisp.Symbol("main"), lisp.NewCall(lisp.OpReturn, lisp.Number(1)))
	add := lisp.NewCall(lisp.OpAdd, lisp.Number(1), lisp.Number(2))

	p := &profiler{}
	label, name := p.prettyName(def)
	assert.Equal(t, "main", label)
	assert.Equal(t, "main", name)
	label, _ = p.prettyName(add)
	assert.Equal(t, "+", label)
	label, name = p.prettyName(lisp.Number(3))
	assert.Empty(t, label)
	assert.Empty(t, name)

	p.applyConfigs(WithEffectLabeler())
	label, name = p.prettyName(def)
	assert.Equal(t, "definition:main", label)
	assert.Equal(t, "main", name)

	p.applyConfigs(WithLabeler(func(v *lisp.Value) string {
		if v.Op == lisp.OpAdd {
			return "add it up"
		}
		return ""
	}))
	label, _ = p.prettyName(add)
	assert.Equal(t, "add_it_up", label)
	label, _ = p.prettyName(def)
	assert.Equal(t, "main", label)
}

func TestSkipTrace(t *testing.T) {
	def := lisp.NewCall(lisp.OpDefun, lisp.Symbol("main"), lisp.Number(1))
	printCall := lisp.NewCall(lisp.OpPrint, lisp.Text("x"))

	p := &profiler{}
	assert.True(t, p.skipTrace(def), "disabled")
	assert.NoError(t, p.Enable())
	assert.Error(t, p.Enable())
	assert.False(t, p.skipTrace(def))
	assert.False(t, p.skipTrace(printCall))
	assert.True(t, p.skipTrace(lisp.Text("x")))
	assert.True(t, p.skipTrace(lisp.NewCall(lisp.OpInvalid)))

	p.applyConfigs(WithDefinitionFilter())
	assert.False(t, p.skipTrace(def))
	assert.True(t, p.skipTrace(printCall))

	p.applyConfigs(WithEffectFilter(lisp.EffectOutput, lisp.EffectNetwork))
	assert.True(t, p.skipTrace(def))
	assert.False(t, p.skipTrace(printCall))
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "", sanitizeLabel(""))
	assert.Equal(t, "Add_It", sanitizeLabel("Add It"))
	assert.Equal(t, "Add_It", sanitizeLabel("Add__ It"))
}

func TestGetSource(t *testing.T) {
	loc := &token.Location{File: "test.arrow", Line: 4, Col: 2}
	call := lisp.NewCall(lisp.OpAdd, &lisp.Value{Type: lisp.LNumber, Num: 1, Source: loc}, lisp.Number(2))
	file, line := getSource(call)
	assert.Equal(t, "test.arrow", file)
	assert.Equal(t, 4, line)
	file, line = getSource(lisp.NewCall(lisp.OpAdd, lisp.Number(1), lisp.Number(2)))
	assert.Equal(t, "no-source", file)
	assert.Equal(t, 0, line)
}
