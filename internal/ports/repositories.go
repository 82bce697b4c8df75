package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/streamcart/product-catalog/internal/domain"
)

// ProductRepository owns all product state. Implementations must return value
// copies; callers never observe a partially applied write.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	// Update applies fn to the current state and commits the result as one
	// mutation: no other write to the same id can interleave between the
	// read and the commit. fn must be pure; it may run under a lock.
	Update(ctx context.Context, productID uuid.UUID, fn func(domain.Product) domain.Product) (domain.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) (domain.Product, error)
}
