package models

import "time"

// Product event types published after a successful write.
const (
	ProductCreated             = "product.created"
	ProductUpdated             = "product.updated"
	ProductAvailabilityToggled = "product.availability_toggled"
	ProductDeleted             = "product.deleted"
)

// ProductEvent describes a change applied to a product.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  uint      `json:"productId"`
	Product    *Product  `json:"product,omitempty"` // nil for deletions
	OccurredAt time.Time `json:"occurredAt"`
}

// NewProductEvent builds an event of the given type for p.
func NewProductEvent(eventType string, p *Product) ProductEvent {
	event := ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		OccurredAt: time.Now().UTC(),
	}
	if eventType != ProductDeleted {
		snapshot := *p
		event.Product = &snapshot
	}
	return event
}
