package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/streamcart/product-catalog/internal/domain"
)

// ProductRepository keeps the catalog in process memory. The map is the single
// source of truth; every read hands out a copy so callers cannot reach stored
// state. Writes are exclusive, reads run concurrently with each other.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[uuid.UUID]domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ProductID] = product
	return nil
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepository) Get(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Update runs the read-modify-write under the write lock, so concurrent
// partial updates to the same id serialize instead of overwriting each other.
func (r *ProductRepository) Update(_ context.Context, productID uuid.UUID, fn func(domain.Product) domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	updated := fn(current)
	updated.ProductID = productID
	r.products[productID] = updated
	return updated, nil
}

func (r *ProductRepository) Delete(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	delete(r.products, productID)
	return p, nil
}
