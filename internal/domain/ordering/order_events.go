package ordering

import (
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the ordering context
const (
	EventOrderCreated   = "ordering.order.created"
	EventOrderFulfilled = "ordering.order.fulfilled"
)

// OrderCreatedEvent is emitted when an order is placed. The notification
// handler mails the confirmation from this event after the transaction
// commits.
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNo       string    `json:"order_no"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Total         string    `json:"total"`
	LineCount     int       `json:"line_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCreated, "Order", o.ID),
		OrderNo:         o.OrderNo,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Total:           o.Total.StringFixed(2),
		LineCount:       len(o.Lines),
	}
}

// OrderFulfilledEvent is emitted when an order is fulfilled
type OrderFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderNo       string    `json:"order_no"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
}

// NewOrderFulfilledEvent creates a new OrderFulfilledEvent
func NewOrderFulfilledEvent(o *Order) *OrderFulfilledEvent {
	return &OrderFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderFulfilled, "Order", o.ID),
		OrderNo:         o.OrderNo,
		CustomerID:      o.CustomerID,
		CustomerEmail:   o.CustomerEmail,
	}
}
