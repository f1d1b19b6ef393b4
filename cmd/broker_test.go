// Copyright © 2024 The Arrow authors

package cmd

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/orion-engine/arrow/transport"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- serveBroker(ctx, ln, logrus.New()) }()

	ws := transport.NewWebsocket()
	alice, err := ws.Connect(ctx, "127.0.0.1", "127.0.0.1", port, "chat")
	require.NoError(t, err)
	bob, err := ws.Connect(ctx, "127.0.0.1", "127.0.0.1", port, "chat")
	require.NoError(t, err)

	// The broker registers subscribers asynchronously; resend until bob
	// hears alice.
	var got []byte
	require.Eventually(t, func() bool {
		alice.TrySend([]byte("hello"))
		var ok bool
		got, ok = bob.TryReceive()
		return ok
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "hello", string(got))
	_, ok := alice.TryReceive()
	assert.False(t, ok, "sender must not hear itself")

	assert.NoError(t, alice.Close())
	assert.NoError(t, bob.Close())
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("broker did not shut down")
	}
}

func TestBrokerCommand_DefaultFlags(t *testing.T) {
	cmd := BrokerCommand()
	flag := cmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, ":4242", flag.DefValue)
}
