package ports

import (
	"context"
	"time"

	"github.com/streamcart/product-catalog/internal/domain"
)

// EventEnvelope is the wire-level unit published for every committed product
// mutation. Payload is the product state after the mutation; for
// product.deleted it is the last state before removal. Immutable once built.
type EventEnvelope struct {
	Type      string         `json:"type"`
	Payload   domain.Product `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload domain.Product) error
}

// EventHandler receives successfully decoded envelopes from a subscriber.
// Handler errors are logged by the subscriber and never retried.
type EventHandler func(ctx context.Context, envelope EventEnvelope) error
