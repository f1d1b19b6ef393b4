// Copyright © 2024 The Arrow authors

package cmd

import (
	"io"
	"os"

	"github.com/orion-engine/arrow/repl"
	"github.com/spf13/cobra"
)

// ReplCommand returns the repl command.
func ReplCommand(opts ...Option) *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive arrow REPL",
		Long: `Start an interactive read-eval-print loop for arrow.

Input beginning with ( is executed: defun forms are registered and other forms
are evaluated and printed. Any other word invokes the definitions registered
under that name. Input with unclosed parentheses continues on the next line.
Type help to list operations and exit (or Ctrl-D) to leave.

Example REPL session:
  arrow> (+ 2 3)
  5
  arrow> (defun 'main (let 'x 2 (+ x 2)))
  arrow> main
  4
  arrow> (print (concat "H W" 2))
  H W2
  nil`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newCmdConfig(opts)
			out := cmd.ErrOrStderr()
			a, cleanup, err := cfg.newArrow(cmd.Context(), out)
			if err != nil {
				return err
			}
			defer cleanup()
			replOpts := []repl.Option{repl.WithColor(colorMode())}
			if cmd.Flags().Changed("history") {
				replOpts = append(replOpts, repl.WithHistoryFile(history))
			}
			if in, ok := cmd.InOrStdin().(io.ReadCloser); ok && in != os.Stdin {
				replOpts = append(replOpts, repl.WithStdin(in))
			}
			if w, ok := out.(io.WriteCloser); ok && w != os.Stderr {
				replOpts = append(replOpts, repl.WithStderr(w))
			}
			prompt := "arrow> "
			return repl.RunArrow(a, prompt, "     | ", replOpts...)
		},
	}
	cmd.Flags().StringVar(&history, "history", "",
		"History file (default is $HOME/"+repl.HistoryFileName+"); empty disables history")
	return cmd
}

func init() {
	rootCmd.AddCommand(ReplCommand())
}
