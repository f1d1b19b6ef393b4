// Copyright © 2024 The Arrow authors

// Package docs embeds the Arrow language guide for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
