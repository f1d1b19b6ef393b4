// Copyright © 2024 The Arrow authors

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/lisp/x/profiler"
	"github.com/spf13/cobra"
)

// errReported is returned by commands that have already rendered their
// failure to stderr.
var errReported = errors.New("error reported")

type runFlags struct {
	expression bool
	print      bool
	invoke     string
	excludes   []string
	callgrind  string
}

// RunCommand returns the run command.  Hosts embedding the CLI use opts to
// supply their own transport, journal or interpreter configuration.
func RunCommand(opts ...Option) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run arrow code",
		Long: `Run arrow code supplied via the command line or source files.

Every definition in the given files is registered, then the definitions named
by --invoke are invoked. A FILE ending in /... expands to every .arrow file
below that directory. Without files, the definitions replayed from the
journal are invoked.

With -e each argument is an expression. Definitions are registered and other
forms are evaluated in order.

Examples:
  arrow run main.arrow
  arrow run --invoke serve -p src/...
  arrow run -p -e '(concat "H W" 2)'
  arrow run --callgrind callgrind.out main.arrow
  ARROW_JOURNAL_DSN=journal.db arrow run --invoke main`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, newCmdConfig(opts), &flags, args)
		},
	}
	cmd.Flags().BoolVarP(&flags.expression, "expression", "e", false,
		"Interpret arguments as arrow expressions")
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false,
		"Print expression values to stdout")
	cmd.Flags().StringVar(&flags.invoke, "invoke", "main",
		"Name of the definition invoked after loading files")
	cmd.Flags().StringSliceVar(&flags.excludes, "exclude", nil,
		"Skip files matching these patterns when expanding directories")
	cmd.Flags().StringVar(&flags.callgrind, "callgrind", "",
		"Write a callgrind profile of the run to this file")
	return cmd
}

func runExec(cmd *cobra.Command, cfg *cmdConfig, flags *runFlags, args []string) error {
	if flags.callgrind != "" {
		prof := profiler.NewCallgrindProfiler(profiler.WithDefinitionFilter())
		if err := prof.SetFile(flags.callgrind); err != nil {
			return err
		}
		cfg.arrowOpts = append(cfg.arrowOpts, lisp.WithProfiler(prof))
	}
	stdout := cmd.OutOrStdout()
	a, cleanup, err := cfg.newArrow(cmd.Context(), stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	stderr := cmd.ErrOrStderr()
	if flags.expression {
		return runExpressions(a, stdout, stderr, flags.print, args)
	}
	return runFiles(a, stdout, stderr, flags, args)
}

func runExpressions(a *lisp.Arrow, stdout, stderr io.Writer, print bool, exprs []string) error {
	sources := make(map[string]string, len(exprs))
	for i, expr := range exprs {
		name := fmt.Sprintf("expr%d", i+1)
		sources[name] = expr
		vals, err := a.Exec(name, bytes.NewBufferString(expr))
		if print {
			printValues(stdout, vals)
		}
		if err != nil {
			renderError(stderr, err, sources)
			return errReported
		}
	}
	return nil
}

func runFiles(a *lisp.Arrow, stdout, stderr io.Writer, flags *runFlags, args []string) error {
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	paths = filterExcludes(paths, flags.excludes)
	for _, path := range paths {
		if err := loadFile(a, path); err != nil {
			renderError(stderr, err, nil)
			return errReported
		}
	}
	v, err := a.Invoke(flags.invoke)
	if err != nil {
		renderError(stderr, err, nil)
		return errReported
	}
	if flags.print {
		printValues(stdout, []*lisp.Value{v})
	}
	return nil
}

func loadFile(a *lisp.Arrow, path string) error {
	f, err := os.Open(path) //nolint:gosec // reads user-specified source files
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only
	_, err = a.LoadLocation(path, path, f)
	return err
}

func printValues(w io.Writer, vals []*lisp.Value) {
	for _, v := range vals {
		fmt.Fprintln(w, v) //nolint:errcheck // best-effort output
	}
}

func init() {
	rootCmd.AddCommand(RunCommand())
}
