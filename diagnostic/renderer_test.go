// Copyright © 2024 The Arrow authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.arrow": "(+ \"two\" 3)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "+: text is not a number: \"two\"",
		Spans: []Span{
			{File: "test.arrow", Line: 1, Col: 4, EndCol: 8, Label: "type-mismatch"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()

	// Verify key structural elements
	assertContains(t, got, "error: +: text is not a number: \"two\"")
	assertContains(t, got, "--> test.arrow:1:4")
	assertContains(t, got, "(+ \"two\" 3)")
	assertContains(t, got, "   ^^^^^ type-mismatch")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.arrow": "(defun 'main (return 1))\n(defun 'main (return 2))",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "main is defined more than once",
		Spans: []Span{
			{File: "test.arrow", Line: 2, Col: 8, EndCol: 12},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "warning: main is defined more than once")
	assertContains(t, got, "--> test.arrow:2:8")
	assertContains(t, got, "(defun 'main (return 2))")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.arrow": "(net-connect \"broker\" \"chat\")",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "net-connect: transport failed",
		Spans: []Span{
			{File: "test.arrow", Line: 1, Col: 2, EndCol: 12},
		},
		Notes: []string{
			"caused by: connection refused",
			"condition: transport-error",
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "= note: caused by: connection refused")
	assertContains(t, got, "= note: condition: transport-error")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.arrow": "(concat \"héllo wörld\" nope)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "text span",
		Spans: []Span{
			{File: "test.arrow", Line: 1, Col: 9}, // EndCol=0 → auto-detect
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// The quoted text starts at col 9 and is 13 runes wide.
	assertContains(t, got, "          "+strings.Repeat("^", 13)+"\n")
	assertNotContains(t, got, strings.Repeat("^", 14))
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.arrow": "(print 1)\n(+ 1)\n(let 'x 1)",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityError,
			Message:  "+: expected 2 operands, got 1",
			Spans:    []Span{{File: "test.arrow", Line: 2, Col: 1, EndCol: 5}},
		},
		{
			Severity: SeverityError,
			Message:  "let: expected 3 operands, got 2",
			Spans:    []Span{{File: "test.arrow", Line: 3, Col: 1, EndCol: 10}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// Should have both diagnostics separated by blank line
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "+: expected 2 operands, got 1")
	assertContains(t, got, "let: expected 3 operands, got 2")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "open main.arrow: no such file or directory",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: open main.arrow: no such file or directory")
	// Should be just the header, no arrows or source
	assertNotContains(t, got, "-->")
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
