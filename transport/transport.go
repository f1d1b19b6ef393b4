// Copyright © 2024 The Arrow authors

// Package transport implements the topic subscriptions used by the network
// operations.  A Hub connects interpreters within one process; a Websocket
// transport connects to a Broker over the network.
package transport

import (
	"io"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DefaultBuffer is the number of received messages a handle holds before new
// messages are dropped.
const DefaultBuffer = 64

// Option configures a Hub, Websocket or Broker.
type Option func(*options)

type options struct {
	buffer int
	logger logrus.FieldLogger
}

func newOptions(opts []Option) options {
	o := options{
		buffer: DefaultBuffer,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBuffer sets the number of messages buffered for each subscriber.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// topicKey identifies a topic on a broker.
func topicKey(remote string, port int, topic string) string {
	return net.JoinHostPort(remote, strconv.Itoa(port)) + "/" + topic
}

// queue is a bounded message buffer.  Offer and poll never block.
type queue struct {
	ch chan []byte
}

func newQueue(n int) *queue {
	return &queue{ch: make(chan []byte, n)}
}

// offer buffers data and reports whether there was room for it.
func (q *queue) offer(data []byte) bool {
	select {
	case q.ch <- data:
		return true
	default:
		return false
	}
}

func (q *queue) poll() ([]byte, bool) {
	select {
	case data := <-q.ch:
		return data, true
	default:
		return nil, false
	}
}
