package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the authoritative catalog entry. ProductID is generated at
// creation and never changes; UpdatedAt >= CreatedAt holds for the lifetime
// of the entry.
type Product struct {
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
