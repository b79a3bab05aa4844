package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/database"
	"github.com/unspace/backend/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification document
func (r *NotificationRepository) Create(notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, to_user_id, from_user_id, notification_type, message, item_type, item_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW())
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		notification.ID,
		notification.ToUserID,
		notification.FromUserID,
		notification.Type,
		notification.Message,
		notification.ItemType,
		notification.ItemID,
	).Scan(&notification.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByUserID retrieves a user's notifications, newest first
func (r *NotificationRepository) GetByUserID(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	query := `
		SELECT id, to_user_id, from_user_id, notification_type, message, item_type, item_id, read, created_at
		FROM notifications
		WHERE to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.ToUserID,
			&n.FromUserID,
			&n.Type,
			&n.Message,
			&n.ItemType,
			&n.ItemID,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

// GetUnreadCount counts a user's unread notifications
func (r *NotificationRepository) GetUnreadCount(userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE to_user_id = $1 AND NOT read`

	var count int
	err := r.db.QueryRow(query, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread notification count: %w", err)
	}

	return count, nil
}

// MarkAllRead flips every unread notification for a user. Idempotent.
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) error {
	query := `UPDATE notifications SET read = true WHERE to_user_id = $1 AND NOT read`

	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}
