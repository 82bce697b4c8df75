package application

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/streamcart/product-catalog/internal/domain"
)

// CreateProduct inserts a new product and publishes exactly one
// product.created event carrying the committed state. IDs are generated here,
// so creation never conflicts.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (domain.Product, error) {
	now := s.nowFn()
	product := domain.Product{
		ProductID:   uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}
	s.cacheSet(ctx, product)
	s.publishEvent(ctx, domain.EventProductCreated, product)
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	if cached, ok := s.cacheGet(ctx, productID); ok {
		return cached, nil
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	// A read racing a concurrent update can re-fill the key after that
	// update's invalidation, pinning the pre-update value for at most
	// ProductCacheTTL. The store stays the source of truth.
	s.cacheSet(ctx, product)
	return product, nil
}

// UpdateProduct applies the present fields, stamps UpdatedAt, and commits the
// result as a single mutation: the read-modify-write runs inside the
// repository's write lock, so two concurrent partial updates to the same id
// serialize and neither loses the other's fields. The product.updated event
// carries the committed state. A publish failure does not roll the mutation
// back.
func (s *Service) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (domain.Product, error) {
	updated, err := s.products.Update(ctx, productID, func(current domain.Product) domain.Product {
		next := current
		if req.Name != nil {
			next.Name = *req.Name
		}
		if req.Description != nil {
			next.Description = *req.Description
		}
		if req.Price != nil {
			next.Price = *req.Price
		}
		next.UpdatedAt = s.nowFn()
		return next
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.cacheDelete(ctx, productID)
	s.publishEvent(ctx, domain.EventProductUpdated, updated)
	return updated, nil
}

// DeleteProduct removes the entry and publishes product.deleted with the last
// state the product had before removal.
func (s *Service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	removed, err := s.products.Delete(ctx, productID)
	if err != nil {
		return err
	}
	s.cacheDelete(ctx, productID)
	s.publishEvent(ctx, domain.EventProductDeleted, removed)
	return nil
}

// CatalogStats exposes the consumer-side projection, when one is wired.
func (s *Service) CatalogStats() CatalogStats {
	if s.projection == nil {
		return CatalogStats{}
	}
	return s.projection.Stats()
}

// publishEvent initiates the publish after the mutation is committed and logs
// the outcome. The store favors read-your-writes for the CRUD surface: a
// delivery failure leaves the mutation in place and is surfaced as a warning,
// not as a failure of the triggering call.
func (s *Service) publishEvent(ctx context.Context, eventType string, payload domain.Product) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"module", "application.service",
			"layer", "application",
			"operation", "publish_event",
			"outcome", "failure",
			"event_type", eventType,
			"product_id", payload.ProductID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "event publish succeeded",
		"module", "application.service",
		"layer", "application",
		"operation", "publish_event",
		"outcome", "success",
		"event_type", eventType,
		"product_id", payload.ProductID,
	)
}

func cacheKey(productID uuid.UUID) string {
	return "catalog:product:" + productID.String()
}

func (s *Service) cacheGet(ctx context.Context, productID uuid.UUID) (domain.Product, bool) {
	if s.cache == nil {
		return domain.Product{}, false
	}
	raw, err := s.cache.Get(ctx, cacheKey(productID))
	if err != nil || raw == "" {
		return domain.Product{}, false
	}
	var product domain.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return domain.Product{}, false
	}
	return product, true
}

func (s *Service) cacheSet(ctx context.Context, product domain.Product) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(product.ProductID), string(raw), s.cfg.ProductCacheTTL); err != nil {
		s.logger.DebugContext(ctx, "cache set failed", "product_id", product.ProductID, "error", err)
	}
}

func (s *Service) cacheDelete(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(productID)); err != nil {
		s.logger.DebugContext(ctx, "cache invalidation failed", "product_id", productID, "error", err)
	}
}
