// Copyright © 2024 The Arrow authors

package transport

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Broker is an http.Handler that relays websocket messages between the
// subscribers of each topic.  A subscriber does not receive its own
// messages.
type Broker struct {
	upgrader websocket.Upgrader

	mut    sync.Mutex
	topics map[string]map[*peer]struct{}
	opts   options
}

var _ http.Handler = (*Broker)(nil)

// NewBroker returns a Broker with no subscribers.
func NewBroker(opts ...Option) *Broker {
	return &Broker{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Arrow runtimes are not browsers; they send no Origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		topics: make(map[string]map[*peer]struct{}),
		opts:   newOptions(opts),
	}
}

// ServeHTTP subscribes the connecting client to the topic named by the
// request path.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topic, ok := strings.CutPrefix(r.URL.Path, TopicPath)
	if !ok || topic == "" {
		http.NotFound(w, r)
		return
	}
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		b.opts.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}
	logger := b.opts.logger.WithFields(logrus.Fields{
		"topic":  topic,
		"local":  r.Header.Get(HeaderLocal),
		"remote": r.RemoteAddr,
	})
	p := newPeer(conn, b.opts.buffer, logger)
	b.subscribe(topic, p)
	go p.writeLoop()
	p.readLoop(func(data []byte) bool {
		b.publish(topic, p, data)
		return true
	})
	b.unsubscribe(topic, p)
}

// Subscribers returns the number of clients subscribed to topic.
func (b *Broker) Subscribers(topic string) int {
	b.mut.Lock()
	defer b.mut.Unlock()
	return len(b.topics[topic])
}

// Close disconnects every subscriber.
func (b *Broker) Close() error {
	b.mut.Lock()
	defer b.mut.Unlock()
	for _, subs := range b.topics {
		for p := range subs {
			p.Close()
		}
	}
	return nil
}

func (b *Broker) subscribe(topic string, p *peer) {
	b.mut.Lock()
	defer b.mut.Unlock()
	subs := b.topics[topic]
	if subs == nil {
		subs = make(map[*peer]struct{})
		b.topics[topic] = subs
	}
	subs[p] = struct{}{}
	p.logger.WithField("subscribers", len(subs)).Info("broker subscribe")
}

func (b *Broker) unsubscribe(topic string, p *peer) {
	b.mut.Lock()
	defer b.mut.Unlock()
	subs := b.topics[topic]
	delete(subs, p)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	p.logger.WithField("subscribers", len(subs)).Info("broker unsubscribe")
}

func (b *Broker) publish(topic string, from *peer, data []byte) {
	b.mut.Lock()
	defer b.mut.Unlock()
	for p := range b.topics[topic] {
		if p != from {
			p.TrySend(data)
		}
	}
}
