// Package notify creates notification documents as a best-effort side
// channel. A failed notification must never fail the operation that
// triggered it, so every error here is logged and dropped.
package notify

import (
	"log"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/models"
)

// Store is the subset of the notification repository the emitter needs
type Store interface {
	Create(notification *models.Notification) error
}

// Publisher pushes notification events to connected clients. Optional.
type Publisher interface {
	PublishEvent(event models.Event) error
}

type Emitter struct {
	store     Store
	publisher Publisher
}

func NewEmitter(store Store, publisher Publisher) *Emitter {
	return &Emitter{store: store, publisher: publisher}
}

// Emit records a notification for toUserID. Fire-and-forget: errors are
// logged, never returned.
func (e *Emitter) Emit(toUserID, fromUserID uuid.UUID, notificationType, message string, itemType, itemID *string) {
	notification := &models.Notification{
		ID:         uuid.New(),
		ToUserID:   toUserID,
		FromUserID: &fromUserID,
		Type:       notificationType,
		Message:    message,
		ItemType:   itemType,
		ItemID:     itemID,
	}

	if err := e.store.Create(notification); err != nil {
		log.Printf("Warning: failed to create notification for user %s: %v", toUserID, err)
		return
	}

	if e.publisher == nil {
		return
	}

	err := e.publisher.PublishEvent(models.Event{
		Event:    models.EventNotificationNew,
		ToUserID: &toUserID,
		Payload:  notification,
	})
	if err != nil {
		log.Printf("Warning: failed to publish notification event: %v", err)
	}
}
