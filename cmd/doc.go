// Copyright © 2024 The Arrow authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/orion-engine/arrow/docs"
	"github.com/orion-engine/arrow/lisp"
	"github.com/spf13/cobra"
)

// docWidth is the column at which operation documentation is wrapped.
const docWidth = 72

// DocCommand returns the doc command.
func DocCommand() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "doc [flags] [OP]",
		Short: "Show arrow documentation for the language and its operations",
		Long: `Show the arrow language guide, or the documentation of one operation.

Examples:
  arrow doc              Print the language guide
  arrow doc let          Show docs for the let operation
  arrow doc -l           List every operation with its operand count`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case list:
				return renderOpList(out)
			case len(args) == 0:
				_, err := io.WriteString(out, docs.LangGuide)
				return err
			default:
				return renderOp(out, args[0])
			}
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false,
		"List all operations with their operand counts.")
	return cmd
}

func renderOp(w io.Writer, name string) error {
	op, ok := lisp.LookupOp(name)
	if !ok {
		return fmt.Errorf("unknown operation: %s (see arrow doc -l)", name)
	}
	_, err := fmt.Fprintf(w, "(%s)  operands: %s  effect: %s\n\n%s\n",
		op, op.FormatArity(), op.Effect(), formatDoc(op.Doc()))
	return err
}

func renderOpList(w io.Writer) error {
	for _, name := range lisp.Ops() {
		op, _ := lisp.LookupOp(name)
		if _, err := fmt.Fprintf(w, "%-12s %-10s %s\n", name, op.FormatArity(), op.Effect()); err != nil {
			return err
		}
	}
	return nil
}

// formatDoc collapses the whitespace of doc and wraps it, indented by two
// spaces.
func formatDoc(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	doc = indent.String(wordwrap.String(doc, docWidth), 2)
	return strings.TrimSuffix(doc, "\n")
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
