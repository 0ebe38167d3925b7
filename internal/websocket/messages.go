package websocket

import "encoding/json"

// Message types exchanged on the session socket.
const (
	MessageTypeChunk     = "chunk"
	MessageTypeStatus    = "status"
	MessageTypeCompleted = "completed"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
)

// IncomingMessage is the envelope for client → server messages.
type IncomingMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope is the server → client message format.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ChunkPayload carries one recorded media chunk; Data is base64 on the
// wire.
type ChunkPayload struct {
	Data []byte `json:"data"`
}

// StatusPayload carries a processing status line.
type StatusPayload struct {
	Status string `json:"status"`
}

// CompletedPayload announces interview completion and the redirect delay.
type CompletedPayload struct {
	RedirectAfterMS int64 `json:"redirect_after_ms"`
}
