// ABOUTME: WebSocket client transport for the editing session
// ABOUTME: Dials the hub, performs JoinPage/LeavePage invocations and streams events

package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"pagesmith-api/core/domain"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/livesync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by invocations without an open connection
var ErrNotConnected = errors.New("realtime: not connected")

// Client implements livesync.Transport over a websocket
type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	logger interfaces.Logger

	mu           sync.Mutex
	conn         *clientConn
	pingInterval time.Duration
}

type clientConn struct {
	ws      *websocket.Conn
	events  chan domain.Event
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan livesync.Message
}

var _ livesync.Transport = (*Client)(nil)

// NewClient creates a client for the hub at url (ws:// or wss://)
func NewClient(url string, header http.Header, logger interfaces.Logger) *Client {
	return &Client{
		url:    url,
		header: header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		logger:       logger,
		pingInterval: 30 * time.Second,
	}
}

// SetPingInterval sets the hub's ping interval. A connection that carries
// no message or ping for two intervals is treated as dropped.
func (c *Client) SetPingInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingInterval = d
}

// Connect dials the hub. Any previous connection is closed first.
func (c *Client) Connect(ctx context.Context) error {
	ws, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		return err
	}

	conn := &clientConn{
		ws:      ws,
		events:  make(chan domain.Event, 16),
		done:    make(chan struct{}),
		pending: make(map[string]chan livesync.Message),
	}

	c.mu.Lock()
	prev := c.conn
	c.conn = conn
	idle := 2 * c.pingInterval
	c.mu.Unlock()

	if prev != nil {
		prev.close()
	}

	go c.readLoop(conn, idle)
	return nil
}

// Join invokes JoinPage and waits for its completion
func (c *Client) Join(ctx context.Context, pageID string) error {
	return c.invoke(ctx, livesync.MethodJoinPage, pageID)
}

// Leave invokes LeavePage and waits for its completion
func (c *Client) Leave(ctx context.Context, pageID string) error {
	return c.invoke(ctx, livesync.MethodLeavePage, pageID)
}

// Disconnect closes the current connection, if any
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	conn.close()
	return nil
}

// Events returns the event stream of the current connection. It is closed
// when that connection drops. Without a connection a closed channel is returned.
func (c *Client) Events() <-chan domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		closed := make(chan domain.Event)
		close(closed)
		return closed
	}
	return c.conn.events
}

func (c *Client) current() *clientConn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) invoke(ctx context.Context, method, pageID string) error {
	conn := c.current()
	if conn == nil {
		return ErrNotConnected
	}

	id := uuid.NewString()
	reply := make(chan livesync.Message, 1)

	conn.mu.Lock()
	conn.pending[id] = reply
	conn.mu.Unlock()
	defer func() {
		conn.mu.Lock()
		delete(conn.pending, id)
		conn.mu.Unlock()
	}()

	msg := livesync.Message{
		Type:         livesync.MessageInvocation,
		InvocationID: id,
		Method:       method,
		PageID:       pageID,
	}
	if err := conn.write(ctx, msg); err != nil {
		return err
	}

	select {
	case res := <-reply:
		if res.Error != "" {
			return errors.New(method + ": " + res.Error)
		}
		return nil
	case <-conn.done:
		return ErrNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) readLoop(conn *clientConn, idle time.Duration) {
	defer func() {
		conn.close()
		close(conn.events)
	}()

	_ = conn.ws.SetReadDeadline(time.Now().Add(idle))
	conn.ws.SetPingHandler(func(data string) error {
		_ = conn.ws.SetReadDeadline(time.Now().Add(idle))
		err := conn.ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		var msg livesync.Message
		if err := conn.ws.ReadJSON(&msg); err != nil {
			select {
			case <-conn.done:
			default:
				if c.logger != nil {
					c.logger.Warn("Hub connection lost", map[string]interface{}{
						"url":   c.url,
						"error": err.Error(),
					})
				}
			}
			return
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(idle))

		switch msg.Type {
		case livesync.MessageCompletion:
			conn.mu.Lock()
			reply, ok := conn.pending[msg.InvocationID]
			conn.mu.Unlock()
			if ok {
				select {
				case reply <- msg:
				default:
				}
			}
		case livesync.MessageEvent:
			if msg.Event == nil {
				continue
			}
			select {
			case conn.events <- *msg.Event:
			case <-conn.done:
				return
			}
		}
	}
}

func (cc *clientConn) write(ctx context.Context, msg livesync.Message) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = cc.ws.SetWriteDeadline(deadline)
	return cc.ws.WriteJSON(msg)
}

func (cc *clientConn) close() {
	cc.once.Do(func() {
		close(cc.done)
		cc.writeMu.Lock()
		_ = cc.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		cc.writeMu.Unlock()
		_ = cc.ws.Close()
	})
}
