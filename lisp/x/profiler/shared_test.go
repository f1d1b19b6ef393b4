// Copyright © 2024 The Arrow authors

package profiler_test

import (
	"bytes"
	"testing"

	"github.com/orion-engine/arrow/arrowtest"
	"github.com/orion-engine/arrow/lisp"
	"github.com/stretchr/testify/require"
)

const testProgram = `
(defun 'helper (return 0))
(defun 'main
  (let 'x 2
    (+ x (* x 3))))
`

// runProgram loads testProgram into an interpreter profiled by p, invokes
// main and closes the interpreter, completing the profile.
func runProgram(t *testing.T, p lisp.Profiler) {
	t.Helper()
	var out bytes.Buffer
	arrow, err := arrowtest.NewArrow(t, &out, lisp.WithProfiler(p))
	require.NoError(t, err)
	_, err = arrow.Load("test.arrow", bytes.NewReader([]byte(testProgram)))
	require.NoError(t, err)
	v, err := arrow.Invoke("main")
	require.NoError(t, err)
	require.True(t, lisp.Number(8).Equal(v), "result %v", v)
	require.NoError(t, arrow.Close())
}
