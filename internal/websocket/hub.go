package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one candidate's live connection for one interview session.
type Client struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    string
	Conn      *websocket.Conn
	Send      chan interface{}
	Done      chan struct{}

	closeOnce sync.Once
}

// Close shuts the client down. Safe to call from multiple goroutines.
// Send is left open so concurrent senders never hit a closed channel;
// the write pump exits via Done instead.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// IsConnected checks if the client is still connected.
func (c *Client) IsConnected() bool {
	select {
	case <-c.Done:
		return false
	default:
		return true
	}
}

// Hub tracks the active connection per interview session and pushes
// status updates to it.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client // key: session ID
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
	}
}

// AddClient registers a client for a session. A duplicate connection for
// the same session closes the old one first.
func (h *Hub) AddClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.SessionID]; ok && existing.ID != client.ID {
		existing.Close()
	}
	h.clients[client.SessionID] = client
}

// GetClient returns the connection for a session, or nil.
func (h *Hub) GetClient(sessionID uuid.UUID) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[sessionID]
}

// RemoveClient forgets a client. Only removes the mapping if it still
// points at this client; a reconnect may have replaced it.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.SessionID]; ok && existing.ID == client.ID {
		delete(h.clients, client.SessionID)
	}
}

// send pushes a message to a session's client without blocking; a slow
// consumer drops the update rather than stalling the session.
func (h *Hub) send(sessionID uuid.UUID, message interface{}) {
	client := h.GetClient(sessionID)
	if client == nil || !client.IsConnected() {
		return
	}
	select {
	case client.Send <- message:
	default:
	}
}

// NotifyStatus pushes a processing status line to the candidate.
func (h *Hub) NotifyStatus(sessionID uuid.UUID, status string) {
	h.send(sessionID, Envelope{
		Type:    MessageTypeStatus,
		Payload: StatusPayload{Status: status},
	})
}

// NotifyCompleted tells the candidate the interview is done and when to
// redirect to the completion page.
func (h *Hub) NotifyCompleted(sessionID uuid.UUID, redirectAfter time.Duration) {
	h.send(sessionID, Envelope{
		Type:    MessageTypeCompleted,
		Payload: CompletedPayload{RedirectAfterMS: redirectAfter.Milliseconds()},
	})
}
