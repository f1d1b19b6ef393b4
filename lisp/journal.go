// Copyright © 2024 The Arrow authors

package lisp

import "context"

// Journal durably records the source of every registered definition so that
// a registry can be rebuilt with Arrow.Replay.
type Journal interface {
	Append(ctx context.Context, source string) error
	Sources(ctx context.Context) ([]string, error)
}
