package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/unspace/backend/internal/database"
	"github.com/unspace/backend/internal/models"
)

type ItemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts an item
func (r *ItemRepository) Create(item *models.Item) error {
	query := `
		INSERT INTO items (id, owner_id, item_type, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		item.ID,
		item.OwnerID,
		item.ItemType,
		item.Title,
		item.Description,
		item.Status,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(id uuid.UUID) (*models.Item, error) {
	query := `
		SELECT id, owner_id, item_type, title, description, status, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item := &models.Item{}
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.OwnerID,
		&item.ItemType,
		&item.Title,
		&item.Description,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// List retrieves items, optionally filtered by type, newest first
func (r *ItemRepository) List(itemType string, limit, offset int) ([]models.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, owner_id, item_type, title, description, status, created_at, updated_at
		FROM items
		WHERE ($1 = '' OR item_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, itemType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.ItemType,
			&item.Title,
			&item.Description,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}
