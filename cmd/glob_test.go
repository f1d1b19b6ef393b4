// Copyright © 2024 The Arrow authors

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.arrow",
		"src/broker.arrow",
		"lib/utils.arrow",
	}
	result := filterExcludes(paths, []string{"broker.arrow"})
	assert.Equal(t, []string{"src/main.arrow", "lib/utils.arrow"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.arrow",
		"build/output.arrow",
		"build/sub/deep.arrow",
		"lib/utils.arrow",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.arrow", "lib/utils.arrow"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.arrow",
		"src/generated_foo.arrow",
		"src/generated_bar.arrow",
		"lib/utils.arrow",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.arrow", "lib/utils.arrow"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.arrow",
		"build/output.arrow",
		"src/broker.arrow",
		"lib/utils.arrow",
	}
	result := filterExcludes(paths, []string{"build", "broker.arrow"})
	assert.Equal(t, []string{"src/main.arrow", "lib/utils.arrow"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.arrow",
		"lib/utils.arrow",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.arrow", "lib/utils.arrow"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.arrow"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.arrow"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.arrow", []string{"src/*.arrow"}))
	assert.False(t, matchesAny("lib/main.arrow", []string{"src/*.arrow"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/broker.arrow", []string{"broker.arrow"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.arrow", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.arrow", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.arrow")
	assert.Contains(t, components, "c.arrow")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.arrow", "(defun 'main (return 1))")
	b := writeSource(t, dir, "sub/b.arrow", "(defun 'main (return 2))")
	writeSource(t, dir, "sub/notes.txt", "not source")

	files, err := expandArgs([]string{dir + "/...", "explicit.txt"})
	assert.NoError(t, err)
	assert.Equal(t, []string{a, b, "explicit.txt"}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."})
	assert.Error(t, err)
}
