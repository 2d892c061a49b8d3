package pricing

import (
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the pricing context
const (
	EventPriceListChanged = "pricing.pricelist.changed"
)

// PriceListChangedEvent is emitted on any mutation of a customer's price
// list. Consumers use it to invalidate cached catalog views.
type PriceListChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewPriceListChangedEvent creates a new PriceListChangedEvent
func NewPriceListChangedEvent(l *CustomerPriceList) *PriceListChangedEvent {
	return &PriceListChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPriceListChanged, "CustomerPriceList", l.ID),
		CustomerID:      l.CustomerID,
	}
}
