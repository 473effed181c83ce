package notifyhub

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/helpdeskhq/chatflash-go/types"
)

// Hub holds WebSocket connections grouped by channel and fans published
// envelopes out to every subscriber of that channel. It deliberately does no
// per-subscriber filtering: delivery has org-wide broadcast semantics, and
// relevance is the client's problem.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]string // conn -> subscribed channel
}

// New creates a new channel hub.
func New() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]string),
	}
}

// Register adds a WebSocket connection as a subscriber of channel.
func (h *Hub) Register(conn *websocket.Conn, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = channel
}

// Unregister removes a WebSocket connection from the hub.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// SubscriberCount returns the number of connections subscribed to channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, ch := range h.conns {
		if ch == channel {
			n++
		}
	}
	return n
}

// Publish sends the envelope as JSON to every subscriber of channel and
// returns the number of connections it was delivered to.
func (h *Hub) Publish(channel string, envelope *types.ChannelMessage) int {
	if envelope == nil {
		return 0
	}
	payload, err := sonic.Marshal(envelope)
	if err != nil {
		return 0
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c, ch := range h.conns {
		if ch == channel {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err == nil {
			delivered++
		}
	}
	return delivered
}
