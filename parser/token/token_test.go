// Copyright © 2024 The Arrow authors

package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "stdin", (&Location{File: "stdin", Pos: -1}).String())
	assert.Equal(t, "stdin[4]", (&Location{File: "stdin", Pos: 4}).String())
	assert.Equal(t, "a.arrow:2", (&Location{File: "a.arrow", Line: 2}).String())
	assert.Equal(t, "a.arrow:2:7", (&Location{File: "a.arrow", Line: 2, Col: 7}).String())
}

func TestLocationError(t *testing.T) {
	cause := errors.New("boom")
	err := &LocationError{Err: cause, Source: &Location{File: "x", Line: 1, Col: 1}}
	assert.Equal(t, "x:1:1: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsDecimal(t *testing.T) {
	for _, text := range []string{"2", "-2", "+2.5", "0.1", ".5", "3.", "12e12", "12.02E+5"} {
		assert.True(t, IsDecimal(text), text)
	}
	for _, text := range []string{"", "inf", "NaN", "0x1p-2", "1_000", "x2", "2x", "-", "."} {
		assert.False(t, IsDecimal(text), text)
	}
}
