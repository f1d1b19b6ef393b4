// Copyright © 2024 The Arrow authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/orion-engine/arrow/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) (string, error) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- RunRepl("arrow> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), <-errc
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	err := os.WriteFile(histFile, []byte("(+ 1 2)"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Print",
			input:    "(print \"hw\")\n",
			expected: []string{"hw\nnil\n"},
		},
		{
			name:     "Invoke",
			input:    "(defun 'main (return 7))\nmain\n",
			expected: []string{"7\n"},
		},
		{
			name:     "Invoke Missing",
			input:    "fnord\n",
			expected: []string{"nil\n"},
		},
		{
			name:     "Continuation",
			input:    "(* 3\n(+ 1 2))\n",
			expected: []string{"9\n"},
		},
		{
			name:  "Error",
			input: "(+ y 1)\n",
			expected: []string{
				"error: +: symbol is not bound: y",
				"--> repl:1:4",
				"(+ y 1)",
				"= note: type help to list operations",
			},
		},
		{
			name:     "Syntax Error",
			input:    "(+ 1 2))\n(+ 2 2)\n",
			expected: []string{"unmatched closing parenthesis", "4\n"},
		},
		{
			name:     "Help",
			input:    "(defun 'main (return 1))\nhelp\n",
			expected: []string{"Operations:", "net-connect", "Definitions:\n  main\n"},
		},
		{
			name:     "Bad Word",
			input:    "main extra\n",
			expected: []string{`cannot invoke "main extra"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplWithString(t, tc.input)
			require.NoError(t, err)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestRunReplExit(t *testing.T) {
	got, err := runReplWithString(t, "(+ 40 1)\nexit\n(+ 40 2)\n")
	require.NoError(t, err)
	assert.Contains(t, got, "41\n")
	assert.NotContains(t, got, "42")
}
