package websocket

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/ikkim/tene-backend/pkg/logger"
)

const (
	sendBufferSize      = 16
	broadcastBufferSize = 1024
)

// Client is one websocket connection bound to a cart session
type Client struct {
	hub       *Hub
	conn      *Conn
	SessionID string
	Send      chan []byte
	closeOnce sync.Once
}

// NewClient creates a client for conn; conn may be nil in tests
func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, sendBufferSize),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// sessionMessage is a payload addressed to every device of one session
type sessionMessage struct {
	SessionID string
	Message   []byte
}

// Hub fans cart updates out to the connections of each session.
// A session may have several connections (tabs, devices sharing the id).
type Hub struct {
	clients   map[string][]*Client
	broadcast chan *sessionMessage
	mu        sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string][]*Client),
		broadcast: make(chan *sessionMessage, broadcastBufferSize),
	}
}

// Run delivers broadcasts until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			logger.Info("WebSocket hub stopped", nil)
			return

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message *sessionMessage) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[message.SessionID] {
		select {
		case client.Send <- message.Message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
			"session_id": client.SessionID,
		})
		h.Unregister(client)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, list := range h.clients {
		for _, client := range list {
			client.close()
		}
		delete(h.clients, sessionID)
	}
}

// Register adds client to its session
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
	total := len(h.clients[client.SessionID])
	h.mu.Unlock()

	logger.Info("WebSocket client registered", map[string]interface{}{
		"session_id":     client.SessionID,
		"total_sessions": total,
	})
}

// Unregister removes client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	list := h.clients[client.SessionID]
	kept := make([]*Client, 0, len(list))
	for _, c := range list {
		if c != client {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(h.clients, client.SessionID)
	} else {
		h.clients[client.SessionID] = kept
	}
	h.mu.Unlock()

	client.close()

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"session_id":         client.SessionID,
		"remaining_sessions": len(kept),
	})
}

// SendToSession queues payload as JSON for every client of sessionID.
// Messages are dropped when the hub is backed up.
func (h *Hub) SendToSession(sessionID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal message", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	select {
	case h.broadcast <- &sessionMessage{SessionID: sessionID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	return nil
}

// SessionConnections reports how many clients are attached to sessionID
func (h *Hub) SessionConnections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
