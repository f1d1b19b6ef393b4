// Copyright © 2024 The Arrow authors

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/parser"
	"github.com/orion-engine/arrow/store"
	"github.com/orion-engine/arrow/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (RunCommand, ReplCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	transport lisp.Transport
	journal   lisp.Journal
	arrowOpts []lisp.Config
}

func newCmdConfig(opts []Option) *cmdConfig {
	cfg := &cmdConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTransport injects the transport used by net-connect instead of the
// one selected by the transport.kind setting.
func WithTransport(t lisp.Transport) Option {
	return func(c *cmdConfig) { c.transport = t }
}

// WithJournal injects a journal instead of opening journal.dsn.
func WithJournal(j lisp.Journal) Option {
	return func(c *cmdConfig) { c.journal = j }
}

// WithArrowConfig appends opts to the configuration of every interpreter
// the command creates.  They are applied after the settings read by viper.
func WithArrowConfig(opts ...lisp.Config) Option {
	return func(c *cmdConfig) { c.arrowOpts = append(c.arrowOpts, opts...) }
}

// newArrow creates an interpreter from the viper settings and the command
// options.  The returned cleanup function closes the interpreter and any
// journal opened for it.
func (c *cmdConfig) newArrow(ctx context.Context, stdout io.Writer) (*lisp.Arrow, func(), error) {
	reader, ok := parser.ReaderByName(viper.GetString("reader"))
	if !ok {
		return nil, nil, fmt.Errorf("unknown reader: %q", viper.GetString("reader"))
	}
	shadowing, err := lisp.ParseShadowing(viper.GetString("shadowing"))
	if err != nil {
		return nil, nil, err
	}
	logger := logrus.StandardLogger()

	t := c.transport
	if t == nil {
		t, err = transportByKind(viper.GetString("transport.kind"), logger)
		if err != nil {
			return nil, nil, err
		}
	}

	closers := []func() error{}
	journal := c.journal
	if journal == nil {
		if dsn := viper.GetString("journal.dsn"); dsn != "" {
			var jopts []store.Option
			if table := viper.GetString("journal.table"); table != "" {
				jopts = append(jopts, store.WithTable(table))
			}
			jopts = append(jopts, store.WithLogger(logger))
			j, err := store.Open(ctx, viper.GetString("journal.driver"), dsn, jopts...)
			if err != nil {
				return nil, nil, err
			}
			journal = j
			closers = append(closers, j.Close)
		}
	}

	opts := []lisp.Config{
		lisp.WithContext(ctx),
		lisp.WithReader(reader),
		lisp.WithShadowing(shadowing),
		lisp.WithLogger(logger),
		lisp.WithStdout(stdout),
		lisp.WithTransport(t),
		lisp.WithTransportDefaults(viper.GetString("transport.local"), viper.GetInt("transport.port")),
	}
	if journal != nil {
		opts = append(opts, lisp.WithJournal(journal))
	}
	opts = append(opts, c.arrowOpts...)

	a, err := lisp.New(opts...)
	if err != nil {
		closeAll(closers)
		return nil, nil, err
	}
	if journal != nil {
		if _, err := a.Replay(ctx); err != nil {
			closeAll(closers)
			return nil, nil, err
		}
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.WithError(err).Warn("closing interpreter")
		}
		closeAll(closers)
	}
	return a, cleanup, nil
}

func closeAll(closers []func() error) {
	for _, fn := range closers {
		if err := fn(); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
}

func transportByKind(kind string, logger logrus.FieldLogger) (lisp.Transport, error) {
	switch kind {
	case "", "websocket":
		return transport.NewWebsocket(transport.WithLogger(logger)), nil
	case "hub":
		return transport.NewHub(transport.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown transport kind: %q", kind)
	}
}
