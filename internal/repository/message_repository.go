package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/database"
	"github.com/unspace/backend/internal/models"
)

type MessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message to a conversation's ledger. The read flag
// starts false and created_at is assigned by the database at write time.
func (r *MessageRepository) Create(message *models.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, message_type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW())
		RETURNING created_at, read
	`

	err := r.db.QueryRow(
		query,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.Body,
		message.Type,
	).Scan(&message.CreatedAt, &message.Read)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(id uuid.UUID) (*models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, message_type, read, created_at
		FROM messages
		WHERE id = $1
	`

	message := &models.Message{}
	err := r.db.QueryRow(query, id).Scan(
		&message.ID,
		&message.ConversationID,
		&message.SenderID,
		&message.Body,
		&message.Type,
		&message.Read,
		&message.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return message, nil
}

// GetByConversationID retrieves messages in creation order. The optional
// after cursor pages forward through long threads.
func (r *MessageRepository) GetByConversationID(conversationID string, limit int, after *time.Time) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.body, m.message_type, m.read, m.created_at,
		       u.id, u.email, u.display_name, u.avatar_url, u.created_at, u.updated_at
		FROM messages m
		INNER JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = $1 AND ($2::timestamp IS NULL OR m.created_at > $2)
		ORDER BY m.created_at ASC
		LIMIT $3
	`

	rows, err := r.db.Query(query, conversationID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		var sender models.User

		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Body,
			&msg.Type,
			&msg.Read,
			&msg.CreatedAt,
			&sender.ID,
			&sender.Email,
			&sender.DisplayName,
			&sender.AvatarURL,
			&sender.CreatedAt,
			&sender.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Sender = &sender
		messages = append(messages, msg)
	}

	return messages, nil
}

// MarkConversationRead flips the read flag on every unread message in the
// conversation that the reader did not send, as one batched update.
// Idempotent: a second call matches no rows.
func (r *MessageRepository) MarkConversationRead(conversationID string, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET read = true
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read
	`

	result, err := r.db.Exec(query, conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// GetUnreadCount counts unread messages for a user in a conversation
func (r *MessageRepository) GetUnreadCount(conversationID string, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT read
	`

	var count int
	err := r.db.QueryRow(query, conversationID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}
