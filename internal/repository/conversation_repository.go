package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/database"
	"github.com/unspace/backend/internal/models"
)

type ConversationRepository struct {
	db *database.DB
}

func NewConversationRepository(db *database.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts a conversation together with its initial participant set.
// The ID is the caller-computed deterministic key.
func (r *ConversationRepository) Create(conversation *models.Conversation, participantIDs []uuid.UUID) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO conversations (id, item_type, item_id, item_title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(
		query,
		conversation.ID,
		conversation.ItemType,
		conversation.ItemID,
		conversation.ItemTitle,
	).Scan(&conversation.CreatedAt, &conversation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	for _, userID := range participantIDs {
		_, err = tx.Exec(
			`INSERT INTO conversation_participants (id, conversation_id, user_id, joined_at)
			 VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (conversation_id, user_id) DO NOTHING`,
			uuid.New(), conversation.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a conversation by its deterministic ID
func (r *ConversationRepository) GetByID(id string) (*models.Conversation, error) {
	query := `
		SELECT id, item_type, item_id, item_title,
		       last_message, last_message_at, last_message_sender_id,
		       created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	conversation := &models.Conversation{}
	err := r.db.QueryRow(query, id).Scan(
		&conversation.ID,
		&conversation.ItemType,
		&conversation.ItemID,
		&conversation.ItemTitle,
		&conversation.LastMessage,
		&conversation.LastMessageAt,
		&conversation.LastMessageSenderID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conversation, nil
}

// GetByUserID retrieves the conversations a user participates in, most
// recently active first.
func (r *ConversationRepository) GetByUserID(userID uuid.UUID, limit int) ([]models.Conversation, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	query := `
		SELECT c.id, c.item_type, c.item_id, c.item_title,
		       c.last_message, c.last_message_at, c.last_message_sender_id,
		       c.created_at, c.updated_at
		FROM conversations c
		INNER JOIN conversation_participants cp ON c.id = cp.conversation_id
		WHERE cp.user_id = $1
		ORDER BY c.last_message_at DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		var conv models.Conversation
		err := rows.Scan(
			&conv.ID,
			&conv.ItemType,
			&conv.ItemID,
			&conv.ItemTitle,
			&conv.LastMessage,
			&conv.LastMessageAt,
			&conv.LastMessageSenderID,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, nil
}

// AddParticipant unions a user into the participant set. Idempotent:
// re-adding an existing participant is a no-op.
func (r *ConversationRepository) AddParticipant(conversationID string, userID uuid.UUID) error {
	query := `
		INSERT INTO conversation_participants (id, conversation_id, user_id, joined_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(query, uuid.New(), conversationID, userID)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// GetParticipants retrieves all participants of a conversation
func (r *ConversationRepository) GetParticipants(conversationID string) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.display_name, u.avatar_url, u.created_at, u.updated_at
		FROM users u
		INNER JOIN conversation_participants cp ON u.id = cp.user_id
		WHERE cp.conversation_id = $1
	`

	rows, err := r.db.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.DisplayName,
			&user.AvatarURL,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, user)
	}

	return participants, nil
}

// IsParticipant checks whether a user belongs to a conversation
func (r *ConversationRepository) IsParticipant(conversationID string, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(query, conversationID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}

	return exists, nil
}

// UpdatePreview refreshes the denormalized last-message fields. Runs after
// the message insert and outside any transaction with it: last write wins,
// and a failure here leaves the already-recorded message in place.
func (r *ConversationRepository) UpdatePreview(conversationID, body string, senderID uuid.UUID, at time.Time) error {
	query := `
		UPDATE conversations
		SET last_message = $1, last_message_at = $2, last_message_sender_id = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := r.db.Exec(query, body, at, senderID, conversationID)
	if err != nil {
		return fmt.Errorf("failed to update conversation preview: %w", err)
	}

	return nil
}
