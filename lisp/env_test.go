// Copyright © 2024 The Arrow authors

package lisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(opts ...Config) *Env {
	rt := StandardRuntime()
	rt.Logger = discardLogger
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			panic(err)
		}
	}
	return rt.NewEnv()
}

func TestEnvPushPop(t *testing.T) {
	env := testEnv()
	assert.Equal(t, 0, env.Len())
	popX := env.push("x", Number(1))
	popY := env.push("y", Number(2))
	assert.Equal(t, 2, env.Len())
	v, ok := env.Resolve("x")
	require.True(t, ok)
	assert.True(t, Number(1).Equal(v))
	popY()
	_, ok = env.Resolve("y")
	assert.False(t, ok)
	popX()
	assert.Equal(t, 0, env.Len())
}

func TestEnvShadowing(t *testing.T) {
	for _, test := range []struct {
		shadowing Shadowing
		want      float64
	}{
		{ShadowInnermost, 2},
		{ShadowOutermost, 1},
	} {
		env := testEnv(WithShadowing(test.shadowing))
		pop1 := env.push("x", Number(1))
		pop2 := env.push("x", Number(2))
		v, ok := env.Resolve("x")
		require.True(t, ok)
		assert.Equal(t, test.want, v.Num, test.shadowing.String())
		pop2()
		pop1()
	}
}

func TestEnvResolveSymbolChain(t *testing.T) {
	env := testEnv()
	defer env.push("x", Number(3))()
	defer env.push("y", Symbol("x"))()
	defer env.push("z", Symbol("w"))()
	v, ok := env.Resolve("y")
	require.True(t, ok)
	assert.True(t, Number(3).Equal(v))

	// A binding to a symbol with no further binding resolves to the symbol.
	v, ok = env.Resolve("z")
	require.True(t, ok)
	assert.True(t, Symbol("w").Equal(v))
}

func TestEnvResolveSelfReference(t *testing.T) {
	// (let 'x 1 (let 'x x ...)) must terminate under both rules.
	for _, s := range []Shadowing{ShadowInnermost, ShadowOutermost} {
		env := testEnv(WithShadowing(s))
		pop1 := env.push("x", Number(1))
		pop2 := env.push("x", Symbol("x"))
		v, ok := env.Resolve("x")
		require.True(t, ok)
		assert.True(t, Number(1).Equal(v), s.String())
		pop2()
		pop1()
	}
}

func TestLetRestoresStack(t *testing.T) {
	env := testEnv()
	call := NewCall(OpLet, Symbol("x"), Number(2), NewCall(OpAdd, Symbol("x"), Number(2)))
	v, err := env.Reduce(call)
	require.NoError(t, err)
	assert.True(t, Number(4).Equal(v))
	assert.Equal(t, 0, env.Len())

	failing := NewCall(OpLet, Symbol("x"), Number(2), NewCall(OpAdd, Symbol("y"), Number(2)))
	_, err = env.Reduce(failing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnboundSymbol))
	assert.Equal(t, 0, env.Len())
	_, ok := env.Resolve("x")
	assert.False(t, ok)
}

func TestParseShadowing(t *testing.T) {
	s, err := ParseShadowing("outermost")
	require.NoError(t, err)
	assert.Equal(t, ShadowOutermost, s)
	s, err = ParseShadowing("")
	require.NoError(t, err)
	assert.Equal(t, ShadowInnermost, s)
	_, err = ParseShadowing("sideways")
	assert.Error(t, err)
}
