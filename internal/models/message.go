package models

import (
	"time"

	"github.com/google/uuid"
)

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeClaim = "claim"
)

// Message is an entry in a conversation's append-only ledger. Immutable
// once written except for the read flag.
type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id" db:"sender_id"`
	Body           string    `json:"body" db:"body"`
	Type           string    `json:"type" db:"message_type"`
	Read           bool      `json:"read" db:"read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Sender         *User     `json:"sender,omitempty"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Body           string `json:"body" binding:"required,max=10000"`
}

type GetMessagesRequest struct {
	ConversationID string `form:"conversation_id" binding:"required"`
	Limit          int    `form:"limit"`
	// After is an optional RFC3339 cursor; only messages created after it
	// are returned
	After string `form:"after"`
}
