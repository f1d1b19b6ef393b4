// Copyright © 2024 The Arrow authors

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/orion-engine/arrow/lisp"
	"github.com/orion-engine/arrow/transport"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownGrace = 5 * time.Second

// BrokerCommand returns the broker command.
func BrokerCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "broker",
		Short: "Serve the websocket topic broker",
		Long: `Serve the websocket broker used by net-connect, net-send and net-receive.

Clients connect to ws://HOST:PORT` + transport.TopicPath + `TOPIC. Every message
sent on a topic is delivered to the other subscribers of that topic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return serveBroker(cmd.Context(), ln, logrus.StandardLogger())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":"+strconv.Itoa(lisp.DefaultPort),
		"Address the broker listens on")
	return cmd
}

// serveBroker serves a broker on ln until ctx is done.
func serveBroker(ctx context.Context, ln net.Listener, logger logrus.FieldLogger) error {
	broker := transport.NewBroker(transport.WithLogger(logger))
	srv := &http.Server{
		Handler:           broker,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = broker.Close()
		if err := srv.Shutdown(sctx); err != nil {
			logger.WithError(err).Warn("broker shutdown")
		}
	}()
	logger.WithField("addr", ln.Addr().String()).Info("broker listening")
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(BrokerCommand())
}
