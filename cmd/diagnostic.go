// Copyright © 2024 The Arrow authors

package cmd

import (
	"io"

	"github.com/orion-engine/arrow/diagnostic"
	"github.com/spf13/viper"
)

func colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderError renders err with diagnostic formatting.  Expressions given on
// the command line are not on disk, so sources maps their stream names to
// the expression text.
func renderError(w io.Writer, err error, sources map[string]string) {
	d := diagnostic.FromError(err)
	r := newRenderer()
	if len(sources) > 0 {
		r.SourceReader = func(name string) ([]byte, error) {
			if src, ok := sources[name]; ok {
				return []byte(src), nil
			}
			return readFile(name)
		}
	}
	_ = r.Render(w, d)
}
