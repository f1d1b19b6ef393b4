// Copyright © 2024 The Arrow authors

package regexparser_test

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/orion-engine/arrow/arrowtest"
	"github.com/orion-engine/arrow/parser/regexparser"
)

const fixtureDir = "../../arrowtest/testdata/programs"

func BenchmarkParser(b *testing.B) {
	files, err := filepath.Glob(filepath.Join(fixtureDir, "*.arrow"))
	if err != nil {
		b.Fatalf("Failed to list test fixtures: %v", err)
	}
	sort.Strings(files) // should be redundant
	for _, path := range files {
		b.Run(filepath.Base(path), arrowtest.BenchmarkParse(path, regexparser.NewReader))
	}
}
