package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/hirevision/interview-service/internal/middlewares"
	"github.com/hirevision/interview-service/internal/services"
	ws "github.com/hirevision/interview-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now, restrict in production
	},
}

// WebSocketHandler owns the per-session socket: recorded chunks in,
// status and completion pushes out.
type WebSocketHandler struct {
	sessions *services.InterviewSessionService
	hub      *ws.Hub
	logger   zerolog.Logger
}

func NewWebSocketHandler(
	sessions *services.InterviewSessionService,
	hub *ws.Hub,
	logger zerolog.Logger,
) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		hub:      hub,
		logger:   logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleSession upgrades the connection for one interview session.
// MUST sit behind AuthMiddleware.
func (h *WebSocketHandler) HandleSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Query("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	userID := middlewares.CurrentUserID(c)
	if session.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for this session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &ws.Client{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Conn:      conn,
		Send:      make(chan interface{}, 256),
		Done:      make(chan struct{}),
	}
	h.hub.AddClient(client)

	go h.readPump(client, session)
	go h.writePump(client)
}

func (h *WebSocketHandler) readPump(client *ws.Client, session *services.InterviewSession) {
	defer func() {
		h.hub.RemoveClient(client)
		client.Close()
		// Socket gone means the candidate left the page; release the
		// camera and microphone.
		h.sessions.Close(client.SessionID)
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ws.IncomingMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Str("session_id", client.SessionID.String()).Msg("unexpected websocket close")
			}
			return
		}

		switch msg.Type {
		case ws.MessageTypeChunk:
			var payload ws.ChunkPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.logger.Warn().Err(err).Msg("malformed chunk payload")
				continue
			}
			session.PushChunk(payload.Data)

		case ws.MessageTypePing:
			select {
			case client.Send <- ws.Envelope{Type: ws.MessageTypePong, Payload: struct{}{}}:
			default:
			}

		default:
			h.logger.Debug().Str("type", msg.Type).Msg("unknown websocket message type")
		}
	}
}

func (h *WebSocketHandler) writePump(client *ws.Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(message); err != nil {
				h.logger.Warn().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.Done:
			return
		}
	}
}
