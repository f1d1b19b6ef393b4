// Copyright © 2024 The Arrow authors

package lisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionSentinels(t *testing.T) {
	sentinels := map[string]*Error{
		CondSyntaxError:      ErrSyntax,
		CondArityError:       ErrArity,
		CondTypeMismatch:     ErrTypeMismatch,
		CondUnboundSymbol:    ErrUnboundSymbol,
		CondUnknownOperation: ErrUnknownOperation,
		CondInvalidReduction: ErrInvalidReduction,
		CondTransportError:   ErrTransport,
	}
	for cond, sentinel := range sentinels {
		err := Errorf(cond, "failure")
		assert.Equal(t, cond, sentinel.Condition())
		assert.True(t, errors.Is(err, sentinel), cond)
		for other, s := range sentinels {
			if other != cond {
				assert.False(t, errors.Is(err, s), "%s is %s", cond, other)
			}
		}
	}
}

func TestArityCondition(t *testing.T) {
	err := checkArity(OpAdd, 3)
	if assert.NotNil(t, err) {
		assert.True(t, errors.Is(err, ErrArity))
		assert.Equal(t, "arity-error: +: expected 2 operands, got 3", err.Error())
	}
	assert.Nil(t, checkArity(OpProgn, 12))
	err = checkArity(OpDefun, 1)
	if assert.NotNil(t, err) {
		assert.Equal(t, "arity-error: defun: expected 2 or more operands, got 1", err.Error())
	}
	err = checkArity(numOps, 1)
	if assert.NotNil(t, err) {
		assert.True(t, errors.Is(err, ErrUnknownOperation))
	}
}
