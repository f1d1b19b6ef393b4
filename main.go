// Copyright © 2024 The Arrow authors

package main

import "github.com/orion-engine/arrow/cmd"

func main() {
	cmd.Execute()
}
