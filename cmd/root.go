// Copyright © 2024 The Arrow authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/orion-engine/arrow/lisp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the version reported by arrow --version.  It is overridden at
// link time for release builds.
var Version = "v" + lisp.ArrowVersion + "-dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "arrow",
	Short:   "Arrow, an embeddable Lisp dialect for networked programs",
	Version: Version,
	Long: `Arrow is a small embeddable Lisp dialect implemented in Go. Programs are
built from a fixed set of operations, register named definitions with defun
and exchange messages with other Arrow runtimes over pub/sub topics.

Getting started:
  arrow run main.arrow            Register definitions and invoke main
  arrow run -p -e '(+ 1 2)'       Evaluate an expression
  arrow repl                      Start an interactive REPL
  arrow doc let                   Show documentation for an operation
  arrow broker --addr :4242       Serve the websocket topic broker

Configuration is read from $HOME/.arrow.yaml (or --config) and from
environment variables prefixed with ARROW_, for example
ARROW_TRANSPORT_KIND=hub or ARROW_JOURNAL_DSN=journal.db.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "arrow:", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arrow.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn", "Interpreter log level (trace, debug, info, warn, error).")
	flags.String("reader", "rd", `Source reader: "rd" (recursive descent) or "parsec" (parser combinators).`)
	flags.String("shadowing", "innermost", `Rule for names bound more than once: "innermost" or "outermost".`)
	for _, name := range []string{"color", "log-level", "reader", "shadowing"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.SetDefault("transport.kind", "websocket")
	viper.SetDefault("transport.local", lisp.DefaultLocal)
	viper.SetDefault("transport.port", lisp.DefaultPort)
	viper.SetDefault("journal.driver", "sqlite")

	rootCmd.SetVersionTemplate("arrow {{.Version}}\n")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".arrow" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".arrow")
	}

	viper.SetEnvPrefix("arrow")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configureLogging() error {
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	return nil
}
