// Copyright © 2024 The Arrow authors

// Package arrowtest runs table driven interpreter tests.
package arrowtest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// TestExpr is a single step in a TestSequence.  An Expr beginning with an
// opening parenthesis is executed: defun forms are registered and other forms
// are reduced.  Any other Expr is the name of a definition to invoke.
type TestExpr struct {
	Expr   string `yaml:"expr"`
	Result string `yaml:"result"` // the rendered result, or the error message
	Output string `yaml:"output"` // text written by print
}

// TestSequence is a sequence of expressions which are evaluated sequentially
// by one lisp.Arrow.
type TestSequence []TestExpr

// TestCase is a named TestSequence
type TestCase struct {
	Name         string `yaml:"name"`
	TestSequence `yaml:"sequence"`
}

// TestSuite is a set of named TestSequences
type TestSuite []TestCase

// NewArrow returns an interpreter that writes print output to stdout and
// logs to t.
func NewArrow(t testing.TB, stdout io.Writer, opts ...lisp.Config) (*lisp.Arrow, error) {
	logger := logrus.New()
	logger.SetOutput(NewLogger(t))
	logger.SetLevel(logrus.WarnLevel)
	base := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithLogger(logger),
	}
	return lisp.New(append(base, opts...)...)
}

// Eval runs one TestExpr step against arrow and returns the rendered result.
func Eval(arrow *lisp.Arrow, expr string) string {
	trimmed := strings.TrimSpace(expr)
	if !strings.HasPrefix(trimmed, "(") {
		v, err := arrow.Invoke(trimmed)
		if err != nil {
			return err.Error()
		}
		return v.String()
	}
	vals, err := arrow.Exec("test", strings.NewReader(expr))
	if err != nil {
		return err.Error()
	}
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1].String()
}

// RunTestSuite runs each TestSequence in tests on an isolated lisp.Arrow.
func RunTestSuite(t *testing.T, tests TestSuite, opts ...lisp.Config) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var out bytes.Buffer
		arrow, err := NewArrow(t, &out, opts...)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			out.Reset()
			result := Eval(arrow, expr.Expr)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
		if err := arrow.Close(); err != nil {
			t.Errorf("test %d %q: close: %v", i, test.Name, err)
		}
	}
}

// LoadTestSuite reads a YAML encoded TestSuite.
func LoadTestSuite(r io.Reader) (TestSuite, error) {
	var suite TestSuite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid test suite: %w", err)
	}
	return suite, nil
}

// RunTestFile runs the YAML encoded TestSuite stored at path.
func RunTestFile(t *testing.T, path string, opts ...lisp.Config) {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	defer f.Close()
	suite, err := LoadTestSuite(f)
	if err != nil {
		t.Errorf("%s: %v", path, err)
		return
	}
	RunTestSuite(t, suite, opts...)
}

// RunBenchmark runs a standard benchmark that executes the program in source
// and invokes name.
func RunBenchmark(b *testing.B, source string, name string) {
	b.StopTimer()
	p := parser.NewReader()
	nodes, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	defs, err := lisp.BuildAll(nodes)
	if err != nil {
		b.Fatalf("build error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		arrow, err := lisp.New(
			lisp.WithReader(p),
			lisp.WithStdout(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		for j, def := range defs {
			if _, err := arrow.RegisterValue(def); err != nil {
				b.Fatalf("expr %d: %v", j, err)
			}
		}
		b.StartTimer()
		if _, err := arrow.Invoke(name); err != nil {
			b.Fatalf("invoke %s: %v", name, err)
		}
		b.StopTimer()
	}
}
