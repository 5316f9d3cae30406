// ABOUTME: WebSocket hub grouping editor connections by page and fanning out generation events
// ABOUTME: Handles JoinPage/LeavePage invocations and broadcasts events to page groups

package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"pagesmith-api/core/domain"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/livesync"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// HubConfig tunes the hub
type HubConfig struct {
	// PingInterval is how often idle connections are pinged
	PingInterval time.Duration

	// CheckOrigin overrides the upgrader origin check; same-origin when nil
	CheckOrigin func(r *http.Request) bool
}

// Hub tracks connections and the page groups they joined
type Hub struct {
	upgrader     websocket.Upgrader
	logger       interfaces.Logger
	pingInterval time.Duration

	mu     sync.RWMutex
	conns  map[*hubConn]struct{}
	groups map[string]map[*hubConn]struct{}
}

type hubConn struct {
	ws     *websocket.Conn
	send   chan []byte
	joined map[string]struct{} // guarded by Hub.mu
	once   sync.Once
	done   chan struct{}
}

// NewHub creates a hub
func NewHub(logger interfaces.Logger, cfg HubConfig) *Hub {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:       logger,
		pingInterval: cfg.PingInterval,
		conns:        make(map[*hubConn]struct{}),
		groups:       make(map[string]map[*hubConn]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", map[string]interface{}{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		})
		return
	}

	c := &hubConn{
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		joined: make(map[string]struct{}),
		done:   make(chan struct{}),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast sends event to every connection in the page group and returns
// how many connections it was queued for.
func (h *Hub) Broadcast(pageID string, event domain.Event) int {
	data, err := json.Marshal(livesync.Message{
		Type:   livesync.MessageEvent,
		PageID: pageID,
		Event:  &event,
	})
	if err != nil {
		h.logger.Error("Failed to marshal hub event", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
		return 0
	}

	h.mu.RLock()
	members := make([]*hubConn, 0, len(h.groups[pageID]))
	for c := range h.groups[pageID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range members {
		if h.enqueue(c, data) {
			sent++
		}
	}
	return sent
}

// GroupSize returns the number of connections joined to pageID
func (h *Hub) GroupSize(pageID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[pageID])
}

// ConnectionCount returns the number of open connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*hubConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.drop(c)
	}
}

func (h *Hub) register(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// drop removes c from every group and closes it; safe to call repeatedly
func (h *Hub) drop(c *hubConn) {
	c.once.Do(func() {
		h.mu.Lock()
		for pageID := range c.joined {
			h.leaveLocked(c, pageID)
		}
		delete(h.conns, c)
		h.mu.Unlock()

		close(c.done)
		_ = c.ws.Close()
	})
}

func (h *Hub) join(c *hubConn, pageID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.groups[pageID]
	if !ok {
		group = make(map[*hubConn]struct{})
		h.groups[pageID] = group
	}
	group[c] = struct{}{}
	c.joined[pageID] = struct{}{}
}

func (h *Hub) leave(c *hubConn, pageID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, pageID)
}

func (h *Hub) leaveLocked(c *hubConn, pageID string) {
	delete(c.joined, pageID)
	if group, ok := h.groups[pageID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.groups, pageID)
		}
	}
}

// enqueue queues data for c; a client too slow to drain its buffer is dropped
func (h *Hub) enqueue(c *hubConn, data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn("Dropping slow hub connection", map[string]interface{}{
			"remote": c.ws.RemoteAddr().String(),
		})
		go h.drop(c)
		return false
	}
}

func (h *Hub) readPump(c *hubConn) {
	defer h.drop(c)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})

	for {
		var msg livesync.Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Hub connection closed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return
		}

		if msg.Type != livesync.MessageInvocation {
			continue
		}
		h.invoke(c, msg)
	}
}

func (h *Hub) invoke(c *hubConn, msg livesync.Message) {
	reply := livesync.Message{
		Type:         livesync.MessageCompletion,
		InvocationID: msg.InvocationID,
		PageID:       msg.PageID,
	}

	switch {
	case msg.PageID == "":
		reply.Error = "page_id is required"
	case msg.Method == livesync.MethodJoinPage:
		h.join(c, msg.PageID)
		h.logger.Debug("Connection joined page group", map[string]interface{}{
			"page_id": msg.PageID,
			"members": h.GroupSize(msg.PageID),
		})
	case msg.Method == livesync.MethodLeavePage:
		h.leave(c, msg.PageID)
	default:
		reply.Error = "unknown method: " + msg.Method
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	h.enqueue(c, data)
}

func (h *Hub) writePump(c *hubConn) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
