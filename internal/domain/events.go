package domain

// Event type constants for product domain events. The dotted names double as
// the broker partition keys, so all events of one type share a partition and
// are mutually ordered. Per-product ordering across types is not guaranteed.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

func ValidEventType(v string) bool {
	switch v {
	case EventProductCreated, EventProductUpdated, EventProductDeleted:
		return true
	default:
		return false
	}
}
