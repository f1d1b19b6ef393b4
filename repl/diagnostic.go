// Copyright © 2024 The Arrow authors

package repl

import (
	"os"

	"github.com/orion-engine/arrow/diagnostic"
)

// renderError renders err using the diagnostic renderer.  Input typed at the
// repl is not on disk so src, the input that failed, stands in for the
// source of the repl stream.
func (s *session) renderError(err error, src string) {
	d := diagnostic.FromError(err)
	d.Notes = append(d.Notes, "type help to list operations")
	r := &diagnostic.Renderer{
		Color: s.color,
		SourceReader: func(name string) ([]byte, error) {
			if name == replSource && src != "" {
				return []byte(src), nil
			}
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		},
	}
	_ = r.Render(s.out, d)
}
