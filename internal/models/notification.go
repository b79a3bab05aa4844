package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationTypeMessage = "message"
	NotificationTypeContact = "contact"
	NotificationTypeClaim   = "claim"
)

// Notification is a best-effort side-channel document consumed by the
// client's badge counter. Creation failures never fail the operation
// that triggered them.
type Notification struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ToUserID   uuid.UUID  `json:"to_user_id" db:"to_user_id"`
	FromUserID *uuid.UUID `json:"from_user_id,omitempty" db:"from_user_id"`
	Type       string     `json:"type" db:"notification_type"`
	Message    string     `json:"message" db:"message"`
	ItemType   *string    `json:"item_type,omitempty" db:"item_type"`
	ItemID     *string    `json:"item_id,omitempty" db:"item_id"`
	Read       bool       `json:"read" db:"read"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
