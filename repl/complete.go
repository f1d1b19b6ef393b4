// Copyright © 2024 The Arrow authors

package repl

import (
	"sort"
	"strings"

	"github.com/orion-engine/arrow/lisp"
)

var commands = []string{"exit", "help"}

// symbolCompleter implements readline.AutoCompleter by enumerating operation
// names and the names of registered definitions.
type symbolCompleter struct {
	arrow *lisp.Arrow
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace, open
	// paren or quote).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '\'' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix, start == 0)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len(prefix)
}

// collectNames returns the sorted names beginning with prefix.  Repl
// commands are only candidates at the start of a line.
func (c *symbolCompleter) collectNames(prefix string, lineStart bool) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, name := range lisp.Ops() {
		add(name)
	}
	for _, name := range c.arrow.Registry.Names() {
		add(name)
	}
	if lineStart {
		for _, name := range commands {
			add(name)
		}
	}
	sort.Strings(result)
	return result
}
