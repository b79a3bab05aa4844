package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/models"
)

// The handlers depend on narrow store interfaces instead of the concrete
// repository types. The repository implementations satisfy them as-is;
// tests substitute in-memory fakes.

type ConversationStore interface {
	Create(conversation *models.Conversation, participantIDs []uuid.UUID) error
	GetByID(id string) (*models.Conversation, error)
	GetByUserID(userID uuid.UUID, limit int) ([]models.Conversation, error)
	AddParticipant(conversationID string, userID uuid.UUID) error
	GetParticipants(conversationID string) ([]models.User, error)
	IsParticipant(conversationID string, userID uuid.UUID) (bool, error)
	UpdatePreview(conversationID, body string, senderID uuid.UUID, at time.Time) error
}

type MessageStore interface {
	Create(message *models.Message) error
	GetByConversationID(conversationID string, limit int, after *time.Time) ([]models.Message, error)
	MarkConversationRead(conversationID string, readerID uuid.UUID) (int64, error)
	GetUnreadCount(conversationID string, userID uuid.UUID) (int, error)
}

type ItemStore interface {
	Create(item *models.Item) error
	GetByID(id uuid.UUID) (*models.Item, error)
	List(itemType string, limit, offset int) ([]models.Item, error)
}

// UserStore is the slice of the user repository the conversation flow
// needs to validate recipients.
type UserStore interface {
	Exists(id uuid.UUID) (bool, error)
}
