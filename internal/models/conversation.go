package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversation is a thread between participants about a specific item.
// The ID is a deterministic composite key so "find or create" never needs
// a secondary index: {itemType}_{itemId}_{initiator}_{recipient} for direct
// contact, or lostfound_{itemId} for the shared claim thread.
type Conversation struct {
	ID                  string     `json:"id" db:"id"`
	ItemType            string     `json:"item_type" db:"item_type"`
	ItemID              string     `json:"item_id" db:"item_id"`
	ItemTitle           *string    `json:"item_title,omitempty" db:"item_title"`
	LastMessage         *string    `json:"last_message,omitempty" db:"last_message"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	LastMessageSenderID *uuid.UUID `json:"last_message_sender_id,omitempty" db:"last_message_sender_id"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
	Participants        []User     `json:"participants,omitempty"`
}

// ClaimItemType is the item type reserved for lost-and-found claim threads.
const ClaimItemType = "lostfound"

// ConversationKey builds the deterministic ID for item-initiated contact.
// Note the asymmetry: swapping initiator and recipient yields a different
// key, so each side "initiating" produces its own thread. That matches the
// production behavior and is pinned by tests; do not canonicalize the pair.
func ConversationKey(itemType, itemID string, initiatorID, recipientID uuid.UUID) string {
	return fmt.Sprintf("%s_%s_%s_%s", itemType, itemID, initiatorID, recipientID)
}

// ClaimConversationKey builds the deterministic ID for a lost-and-found
// claim thread. Keyed on the item alone: every claimant of the same item
// joins one shared conversation with the poster.
func ClaimConversationKey(itemID string) string {
	return fmt.Sprintf("%s_%s", ClaimItemType, itemID)
}

type CreateConversationRequest struct {
	ItemType       string    `json:"item_type" binding:"required"`
	ItemID         string    `json:"item_id" binding:"required"`
	ItemTitle      *string   `json:"item_title,omitempty"`
	RecipientID    uuid.UUID `json:"recipient_id" binding:"required"`
	InitialMessage *string   `json:"initial_message,omitempty"`
}

type CreateConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Exists         bool   `json:"exists"`
}

type ClaimItemRequest struct {
	Message *string `json:"message,omitempty"`
}

type ConversationWithDetails struct {
	Conversation
	UnreadCount int `json:"unread_count"`
}
