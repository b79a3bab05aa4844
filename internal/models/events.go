package models

import "github.com/google/uuid"

// WebSocket event types
const (
	EventMessageNew       = "message.new"
	EventMessageSend      = "message.send"
	EventConversationRead = "conversation.read"
	EventNotificationNew  = "notification.new"
	EventPresenceUpdate   = "presence.update"
	EventError            = "error"
)

// Event is the envelope published on Redis and delivered over WebSocket.
// ConversationID and ToUserID control routing: conversation events go to
// participants, notification events to one user, presence to everyone.
type Event struct {
	Event          string      `json:"event"`
	ConversationID string      `json:"conversation_id,omitempty"`
	ToUserID       *uuid.UUID  `json:"to_user_id,omitempty"`
	Payload        interface{} `json:"payload"`
}

type WSMessageSendPayload struct {
	ConversationID string `json:"conversation_id"`
	Body           string `json:"body"`
}

type WSConversationReadPayload struct {
	ConversationID string `json:"conversation_id"`
}

type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
