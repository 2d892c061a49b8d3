package event

import (
	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/pricing"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog events
	serializer.Register(catalog.EventProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventProductDeactivated, &catalog.ProductDeactivatedEvent{})

	// Partner events
	serializer.Register(partner.EventCustomerInvited, &partner.CustomerInvitedEvent{})

	// Pricing events
	serializer.Register(pricing.EventPriceListChanged, &pricing.PriceListChangedEvent{})

	// Ordering events
	serializer.Register(ordering.EventOrderCreated, &ordering.OrderCreatedEvent{})
	serializer.Register(ordering.EventOrderFulfilled, &ordering.OrderFulfilledEvent{})
}
