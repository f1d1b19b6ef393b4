// Copyright © 2024 The Arrow authors

package lisp

import "context"

// Default transport endpoint used by net-connect.
const (
	DefaultLocal = "127.0.0.1"
	DefaultPort  = 4242
)

// Transport opens topic subscriptions for the network operations.
type Transport interface {
	// Connect subscribes to topic on the broker at remote.  The local
	// address and port identify the endpoint of this runtime.
	Connect(ctx context.Context, local, remote string, port int, topic string) (Handle, error)
}

// Handle is an open topic subscription.  TrySend and TryReceive never block.
type Handle interface {
	// TrySend publishes data on the topic and reports whether it was
	// accepted.
	TrySend(data []byte) bool
	// TryReceive returns the next pending message, if there is one.
	TryReceive() ([]byte, bool)
	Close() error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, local, remote string, port int, topic string) (Handle, error)

// Connect implements Transport.
func (fn TransportFunc) Connect(ctx context.Context, local, remote string, port int, topic string) (Handle, error) {
	return fn(ctx, local, remote, port, topic)
}
