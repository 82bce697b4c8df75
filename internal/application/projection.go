package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streamcart/product-catalog/internal/domain"
	"github.com/streamcart/product-catalog/internal/ports"
)

// CatalogProjection is a consumer-side read model built purely from received
// envelopes. It shares no state with the product store; the broker is the only
// coupling between the two.
type CatalogProjection struct {
	mu          sync.RWMutex
	counts      map[string]int64
	products    map[uuid.UUID]domain.Product
	lastEventAt time.Time
}

type CatalogStats struct {
	CreatedEvents  int64      `json:"created_events"`
	UpdatedEvents  int64      `json:"updated_events"`
	DeletedEvents  int64      `json:"deleted_events"`
	ActiveProducts int        `json:"active_products"`
	LastEventAt    *time.Time `json:"last_event_at,omitempty"`
}

func NewCatalogProjection() *CatalogProjection {
	return &CatalogProjection{
		counts:   make(map[string]int64),
		products: make(map[uuid.UUID]domain.Product),
	}
}

// Apply satisfies ports.EventHandler.
func (p *CatalogProjection) Apply(_ context.Context, envelope ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch envelope.Type {
	case domain.EventProductCreated, domain.EventProductUpdated:
		p.products[envelope.Payload.ProductID] = envelope.Payload
	case domain.EventProductDeleted:
		delete(p.products, envelope.Payload.ProductID)
	default:
		return fmt.Errorf("%w: projection cannot apply %q", domain.ErrMalformedMessage, envelope.Type)
	}
	p.counts[envelope.Type]++
	p.lastEventAt = envelope.Timestamp
	return nil
}

func (p *CatalogProjection) Stats() CatalogStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	stats := CatalogStats{
		CreatedEvents:  p.counts[domain.EventProductCreated],
		UpdatedEvents:  p.counts[domain.EventProductUpdated],
		DeletedEvents:  p.counts[domain.EventProductDeleted],
		ActiveProducts: len(p.products),
	}
	if !p.lastEventAt.IsZero() {
		t := p.lastEventAt
		stats.LastEventAt = &t
	}
	return stats
}

// Product returns the projection's last-seen state for one product.
func (p *CatalogProjection) Product(productID uuid.UUID) (domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	product, ok := p.products[productID]
	return product, ok
}
