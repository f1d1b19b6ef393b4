// Copyright © 2024 The Arrow authors

package transport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/orion-engine/arrow/lisp"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned when a closed Hub is used.
var ErrClosed = errors.New("transport closed")

// Hub is an in-process lisp.Transport.  Every handle subscribed to a topic
// receives the messages sent by the other handles on that topic.  Topics are
// scoped by remote address and port so that interpreters configured for
// different brokers do not see each other.
type Hub struct {
	mut    sync.Mutex
	topics map[string]map[*hubHandle]struct{}
	closed bool
	opts   options
}

var _ lisp.Transport = (*Hub)(nil)

// NewHub returns an empty Hub.
func NewHub(opts ...Option) *Hub {
	return &Hub{
		topics: make(map[string]map[*hubHandle]struct{}),
		opts:   newOptions(opts),
	}
}

// Connect implements lisp.Transport.
func (h *Hub) Connect(ctx context.Context, local, remote string, port int, topic string) (lisp.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := topicKey(remote, port, topic)
	handle := &hubHandle{
		hub:   h,
		key:   key,
		local: local,
		queue: newQueue(h.opts.buffer),
	}
	h.mut.Lock()
	defer h.mut.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	subs := h.topics[key]
	if subs == nil {
		subs = make(map[*hubHandle]struct{})
		h.topics[key] = subs
	}
	subs[handle] = struct{}{}
	h.opts.logger.WithFields(logrus.Fields{
		"topic":       key,
		"local":       local,
		"subscribers": len(subs),
	}).Debug("hub subscribe")
	return handle, nil
}

// Subscribers returns the number of open handles on topic.
func (h *Hub) Subscribers(remote string, port int, topic string) int {
	h.mut.Lock()
	defer h.mut.Unlock()
	return len(h.topics[topicKey(remote, port, topic)])
}

// Close closes every handle and rejects further connections.
func (h *Hub) Close() error {
	h.mut.Lock()
	defer h.mut.Unlock()
	h.closed = true
	for _, subs := range h.topics {
		for handle := range subs {
			handle.closed.Store(true)
		}
	}
	h.topics = make(map[string]map[*hubHandle]struct{})
	return nil
}

func (h *Hub) publish(from *hubHandle, data []byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for handle := range h.topics[from.key] {
		if handle == from {
			continue
		}
		// Each subscriber gets its own copy.
		msg := append([]byte(nil), data...)
		if !handle.queue.offer(msg) {
			h.opts.logger.WithFields(logrus.Fields{
				"topic": from.key,
				"local": handle.local,
			}).Debug("hub subscriber buffer full; message dropped")
		}
	}
}

func (h *Hub) unsubscribe(handle *hubHandle) {
	h.mut.Lock()
	defer h.mut.Unlock()
	subs := h.topics[handle.key]
	delete(subs, handle)
	if len(subs) == 0 {
		delete(h.topics, handle.key)
	}
}

type hubHandle struct {
	hub    *Hub
	key    string
	local  string
	queue  *queue
	closed atomic.Bool
}

func (handle *hubHandle) TrySend(data []byte) bool {
	if handle.closed.Load() {
		return false
	}
	handle.hub.publish(handle, data)
	return true
}

func (handle *hubHandle) TryReceive() ([]byte, bool) {
	return handle.queue.poll()
}

func (handle *hubHandle) Close() error {
	if handle.closed.Swap(true) {
		return nil
	}
	handle.hub.unsubscribe(handle)
	return nil
}
