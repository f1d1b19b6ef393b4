// Copyright © 2024 The Arrow authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/orion-engine/arrow/diagnostic"
	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser"
)

// HistoryFileName is the name of the history file kept in the user's home
// directory.
const HistoryFileName = ".arrow_history"

const replSource = "repl"

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
	noHistory   bool
	color       diagnostic.ColorMode
	arrowOpts   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile stores line history in path.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
		c.noHistory = path == ""
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithArrowConfig passes opts to the interpreter created by RunRepl.
func WithArrowConfig(opts ...lisp.Config) Option {
	return func(c *config) {
		c.arrowOpts = append(c.arrowOpts, opts...)
	}
}

// RunRepl runs a repl in a new interpreter using the default reader.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	arrowOpts := []lisp.Config{lisp.WithReader(parser.NewReader())}
	if cfg.stderr != nil {
		arrowOpts = append(arrowOpts, lisp.WithStdout(cfg.stderr))
	}
	arrowOpts = append(arrowOpts, cfg.arrowOpts...)
	a, err := lisp.New(arrowOpts...)
	if err != nil {
		return fmt.Errorf("interpreter initialization failure: %w", err)
	}
	defer a.Close() //nolint:errcheck // best-effort cleanup
	return RunArrow(a, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunArrow runs a repl against a.  Input beginning with an open parenthesis
// is executed, registering defuns and printing the value of every other
// form.  Any other word invokes the definitions registered under that name.
// Input with unclosed nodes continues on the next line, shown with the cont
// prompt.
func RunArrow(a *lisp.Arrow, prompt, cont string, opts ...Option) error {
	cfg := newConfig(opts...)
	out := io.Writer(os.Stderr)
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	history := cfg.historyFile
	if history == "" && !cfg.noHistory {
		history = historyPath()
	}
	ensureHistoryFilePermissions(history)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{arrow: a},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{arrow: a, out: out, color: cfg.color}
	for {
		if s.pending.Len() == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending.Reset()
			continue
		}
		if err != nil {
			return nil
		}
		if !s.handle(line) {
			return nil
		}
	}
}

// session holds the input accumulated across continuation lines.
type session struct {
	arrow   *lisp.Arrow
	out     io.Writer
	color   diagnostic.ColorMode
	pending strings.Builder
}

// handle processes one line of input and reports whether the repl should
// keep reading.
func (s *session) handle(line string) bool {
	if s.pending.Len() == 0 {
		word := strings.TrimSpace(line)
		switch {
		case word == "":
			return true
		case word == "exit":
			return false
		case word == "help":
			s.help()
			return true
		case !strings.HasPrefix(word, "("):
			s.invoke(word)
			return true
		}
	}
	s.pending.WriteString(line)
	s.pending.WriteString("\n")
	src := s.pending.String()
	vals, err := s.arrow.Exec(replSource, strings.NewReader(src))
	if lisp.IsIncomplete(err) {
		return true
	}
	s.pending.Reset()
	for _, v := range vals {
		fmt.Fprintln(s.out, v) //nolint:errcheck // best-effort REPL output
	}
	if err != nil {
		s.renderError(err, src)
	}
	return true
}

func (s *session) invoke(word string) {
	if strings.ContainsAny(word, " \t\")") {
		fmt.Fprintf(s.out, "cannot invoke %q: expected a definition name or a form\n", word) //nolint:errcheck // best-effort REPL output
		return
	}
	v, err := s.arrow.Invoke(word)
	if err != nil {
		s.renderError(err, "")
		return
	}
	fmt.Fprintln(s.out, v) //nolint:errcheck // best-effort REPL output
}

const helpText = `Commands:
  help      show this message
  exit      leave the repl
  (form)    execute a form; defun forms are registered
  NAME      invoke the definitions named NAME
Operations:
`

func (s *session) help() {
	w := s.out
	io.WriteString(w, helpText) //nolint:errcheck // best-effort REPL output
	for _, name := range lisp.Ops() {
		op, _ := lisp.LookupOp(name)
		fmt.Fprintf(w, "  %-12s %s\n", name, op.FormatArity()) //nolint:errcheck // best-effort REPL output
	}
	if names := s.arrow.Registry.Names(); len(names) > 0 {
		fmt.Fprintf(w, "Definitions:\n  %s\n", strings.Join(names, " ")) //nolint:errcheck // best-effort REPL output
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the owner.  Failures are ignored; readline reports them
// when it opens the file.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
