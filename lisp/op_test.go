// Copyright © 2024 The Arrow authors

package lisp

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpTable(t *testing.T) {
	names := Ops()
	assert.Len(t, names, int(numOps)-1)
	assert.True(t, sort.StringsAreSorted(names))
	for _, name := range names {
		op, ok := LookupOp(name)
		if assert.True(t, ok, name) {
			assert.True(t, op.IsValid())
			assert.Equal(t, name, op.String())
			assert.NotEmpty(t, op.Doc(), name)
		}
	}
	_, ok := LookupOp("lambda")
	assert.False(t, ok)
	assert.False(t, OpInvalid.IsValid())
	assert.Equal(t, "op0", OpInvalid.String())
}

func TestOpArity(t *testing.T) {
	tests := []struct {
		op    OpID
		arity string
	}{
		{OpAdd, "2"},
		{OpPrint, "1"},
		{OpLet, "3"},
		{OpProgn, "1 or more"},
		{OpDefun, "2 or more"},
		{OpNetReceive, "1"},
	}
	for _, test := range tests {
		assert.Equal(t, test.arity, test.op.FormatArity(), test.op.String())
	}
}

func TestOpEffect(t *testing.T) {
	assert.Equal(t, EffectNone, OpAdd.Effect())
	assert.Equal(t, EffectOutput, OpPrint.Effect())
	assert.Equal(t, EffectScope, OpLet.Effect())
	assert.Equal(t, EffectDefinition, OpDefun.Effect())
	assert.Equal(t, EffectNetwork, OpNetSend.Effect())
	assert.Equal(t, "network", EffectNetwork.String())
}
