// Copyright © 2024 The Arrow authors

package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/orion-engine/arrow/lisp"
	"github.com/sirupsen/logrus"
)

// HeaderLocal carries the local address of a connecting runtime.
const HeaderLocal = "X-Arrow-Local"

// TopicPath is the path prefix under which a Broker serves topics.
const TopicPath = "/topics/"

const (
	writeWait  = 10 * time.Second
	closeGrace = time.Second
)

// Websocket is a lisp.Transport that subscribes to topics on a Broker.
type Websocket struct {
	// Dialer opens connections.  websocket.DefaultDialer is used when Dialer
	// is nil.
	Dialer *websocket.Dialer

	opts options
}

var _ lisp.Transport = (*Websocket)(nil)

// NewWebsocket returns a transport that dials brokers with the default
// dialer.
func NewWebsocket(opts ...Option) *Websocket {
	return &Websocket{opts: newOptions(opts)}
}

// TopicURL returns the websocket URL of topic on the broker at remote:port.
func TopicURL(remote string, port int, topic string) string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(remote, strconv.Itoa(port)),
		Path:   TopicPath + topic,
	}
	return u.String()
}

// Connect implements lisp.Transport.
func (w *Websocket) Connect(ctx context.Context, local, remote string, port int, topic string) (lisp.Handle, error) {
	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	header := http.Header{}
	if local != "" {
		header.Set(HeaderLocal, local)
	}
	addr := TopicURL(remote, port, topic)
	conn, resp, err := dialer.DialContext(ctx, addr, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	logger := w.opts.logger.WithFields(logrus.Fields{
		"url":   addr,
		"local": local,
	})
	h := newPeer(conn, w.opts.buffer, logger)
	go h.readLoop(h.received.offer)
	go h.writeLoop()
	logger.Debug("websocket subscribed")
	return h, nil
}

// peer is one end of a websocket topic subscription.  It is used by clients
// as a lisp.Handle and by the Broker for each subscriber.  Gorilla
// connections support one concurrent reader and one concurrent writer, so
// reads happen on readLoop and writes on writeLoop.
type peer struct {
	conn     *websocket.Conn
	received *queue
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	logger   logrus.FieldLogger
}

func newPeer(conn *websocket.Conn, buffer int, logger logrus.FieldLogger) *peer {
	return &peer{
		conn:     conn,
		received: newQueue(buffer),
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// TrySend queues data for the writer.  It reports false if the peer is
// closed or its outgoing buffer is full.
func (p *peer) TrySend(data []byte) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	msg := append([]byte(nil), data...)
	select {
	case p.send <- msg:
		return true
	default:
		p.logger.Debug("websocket send buffer full; message dropped")
		return false
	}
}

// TryReceive returns the next buffered message.
func (p *peer) TryReceive() ([]byte, bool) {
	return p.received.poll()
}

// Close stops both loops and closes the connection.
func (p *peer) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

// readLoop passes every binary or text message to deliver until the
// connection fails or the peer is closed.
func (p *peer) readLoop(deliver func([]byte) bool) {
	defer p.Close()
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					p.logger.WithError(err).Warn("websocket read failed")
				}
			}
			return
		}
		if !deliver(data) {
			p.logger.Debug("websocket receive buffer full; message dropped")
		}
	}
}

func (p *peer) writeLoop() {
	defer p.conn.Close()
	for {
		select {
		case msg := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				p.logger.WithError(err).Warn("websocket write failed")
				p.Close()
				return
			}
		case <-p.done:
			deadline := time.Now().Add(closeGrace)
			closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = p.conn.WriteControl(websocket.CloseMessage, closing, deadline)
			return
		}
	}
}
