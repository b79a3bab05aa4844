package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item statuses
const (
	ItemStatusOpen   = "open"
	ItemStatusClosed = "closed"
)

// Item is the minimal marketplace record conversations refer to. The
// wider listing/book/gig features live in their own collaborator
// services; messaging only needs the owner and title.
type Item struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	ItemType    string    `json:"item_type" db:"item_type"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

var validItemTypes = map[string]bool{
	"listing":     true,
	"book":        true,
	ClaimItemType: true,
	"gig":         true,
	"business":    true,
}

// ValidateItemType reports whether the given item type is known
func ValidateItemType(itemType string) error {
	if !validItemTypes[itemType] {
		return fmt.Errorf("unknown item type %q", itemType)
	}
	return nil
}

type CreateItemRequest struct {
	ItemType    string  `json:"item_type" binding:"required"`
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description,omitempty"`
}

type ListItemsRequest struct {
	ItemType string `form:"item_type"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
