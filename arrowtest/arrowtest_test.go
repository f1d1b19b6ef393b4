// Copyright © 2024 The Arrow authors

package arrowtest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTestSuite(t *testing.T) {
	suite, err := LoadTestSuite(strings.NewReader(`
- name: sum
  sequence:
    - expr: (+ 1 2)
      result: "3"
    - expr: (print 1)
      result: nil
      output: "1\n"
`))
	require.NoError(t, err)
	require.Len(t, suite, 1)
	assert.Equal(t, "sum", suite[0].Name)
	assert.Equal(t, TestSequence{
		{"(+ 1 2)", "3", ""},
		{"(print 1)", "nil", "1\n"},
	}, suite[0].TestSequence)

	_, err = LoadTestSuite(strings.NewReader(`- name: x
  steps: []
`))
	assert.Error(t, err)

	suite, err = LoadTestSuite(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, suite)
}

func TestRunTestFile(t *testing.T) {
	RunTestFile(t, "testdata/suites/core.yaml")
}

func TestLogger(t *testing.T) {
	log := NewLogger(t)
	n, err := log.Write([]byte("partial"))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "partial", string(log.buf))
	_, err = log.Write([]byte(" line\nnext"))
	assert.NoError(t, err)
	assert.Equal(t, "next", string(log.buf))
	log.Flush()
	assert.Empty(t, log.buf)
}
