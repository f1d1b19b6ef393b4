// Copyright © 2024 The Arrow authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tabWidth is the number of columns a tab occupies in a rendered snippet.
const tabWidth = 4

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	out := &output{
		w: bufio.NewWriter(w),
		p: choosePalette(r.Color, fileFromWriter(w)),
	}
	src := &sourceCache{read: r.SourceReader, files: make(map[string][]string)}
	gutter := gutterWidth(d.Spans)

	out.header(d)
	for _, span := range d.Spans {
		out.span(span, src.line(span.File, span.Line), gutter)
	}
	for _, note := range d.Notes {
		out.printf("   %s=%s note: %s\n", out.p.boldCyan, out.p.reset, note)
	}
	if out.err != nil {
		return out.err
	}
	return out.w.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// output keeps the first write error; later writes are dropped.
type output struct {
	w   *bufio.Writer
	p   palette
	err error
}

func (o *output) printf(format string, a ...interface{}) {
	if o.err == nil {
		_, o.err = fmt.Fprintf(o.w, format, a...)
	}
}

func (o *output) header(d Diagnostic) {
	o.printf("%s%s%s%s: %s%s%s\n",
		o.p.severity(d.Severity), o.p.bold, d.Severity, o.p.reset,
		o.p.bold, d.Message, o.p.reset)
}

// span writes the location of span followed, when source is available, by
// the annotated source line.  gutter is the width of the line number column
// shared by every span of the diagnostic.
func (o *output) span(span Span, source string, gutter int) {
	o.printf("  %s-->%s %s\n", o.p.boldBlue, o.p.reset, location(span))
	if source == "" {
		o.printf("   %s|%s\n", o.p.boldBlue, o.p.reset)
		return
	}
	blank := strings.Repeat(" ", gutter)
	o.printf(" %s%s |%s\n", o.p.boldBlue, blank, o.p.reset)
	o.printf(" %s%*d |%s  %s\n", o.p.boldBlue, gutter, span.Line, o.p.reset,
		strings.ReplaceAll(source, "\t", strings.Repeat(" ", tabWidth)))

	runes := []rune(source)
	start, end := underlineRange(runes, span)
	offset := 0
	if start > 1 && start-1 <= len(runes) {
		offset = displayWidth(string(runes[:start-1]))
	}
	o.printf(" %s%s |%s  %s%s%s%s", o.p.boldBlue, blank, o.p.reset,
		strings.Repeat(" ", offset), o.p.boldRed, strings.Repeat("^", end-start+1), o.p.reset)
	if span.Label != "" {
		o.printf(" %s%s%s", o.p.boldRed, span.Label, o.p.reset)
	}
	o.printf("\n %s%s |%s\n", o.p.boldBlue, blank, o.p.reset)
}

// location renders span as file:line:col, omitting unknown parts.
func location(span Span) string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	}
}

// underlineRange returns the first and last columns underlined for span.
func underlineRange(source []rune, span Span) (int, int) {
	start := span.Col
	if start <= 0 {
		start = 1
	}
	end := span.EndCol
	if end <= 0 {
		end = detectEndCol(source, start)
	}
	if end < start {
		end = start
	}
	return start, end
}

func gutterWidth(spans []Span) int {
	width := 1
	for _, span := range spans {
		if n := len(strconv.Itoa(span.Line)); n > width {
			width = n
		}
	}
	return width
}

// sourceCache reads each file at most once per rendered diagnostic.
type sourceCache struct {
	read  func(string) ([]byte, error)
	files map[string][]string
}

// line returns the text of a 1-based line of file, or "" when the file or
// line is unavailable.
func (c *sourceCache) line(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	lines, ok := c.files[file]
	if !ok {
		lines = c.load(file)
		c.files[file] = lines
	}
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func (c *sourceCache) load(file string) []string {
	read := c.read
	if read == nil {
		read = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := read(file)
	if err != nil {
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// detectEndCol scans from col to find the end of the current token.  A
// token starting with a double quote extends to the closing quote.
func detectEndCol(source []rune, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	i := col - 1
	if source[i] == '"' {
		for i++; i < len(source); i++ {
			if source[i] == '"' {
				return i + 1
			}
		}
		return len(source)
	}
	for i < len(source) && !strings.ContainsRune(" \t()\"", source[i]) {
		i++
	}
	if i == col-1 {
		return col
	}
	return i
}

// displayWidth returns the display width of a string, expanding tabs.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter returns the *os.File behind w, if there is one, for
// terminal detection.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
