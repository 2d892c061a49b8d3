package catalog

import (
	"github.com/b2bportal/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventProductCreated     = "catalog.product.created"
	EventProductUpdated     = "catalog.product.updated"
	EventProductDeactivated = "catalog.product.deactivated"
)

// ProductCreatedEvent is emitted when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	PartNo string `json:"part_no"`
	Name   string `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductCreated, "Product", p.ID),
		PartNo:          p.PartNo,
		Name:            p.Name,
	}
}

// ProductUpdatedEvent is emitted when a product's info or price changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	PartNo string `json:"part_no"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductUpdated, "Product", p.ID),
		PartNo:          p.PartNo,
	}
}

// ProductDeactivatedEvent is emitted when a product becomes non-orderable
type ProductDeactivatedEvent struct {
	shared.BaseDomainEvent
	PartNo string `json:"part_no"`
}

// NewProductDeactivatedEvent creates a new ProductDeactivatedEvent
func NewProductDeactivatedEvent(p *Product) *ProductDeactivatedEvent {
	return &ProductDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductDeactivated, "Product", p.ID),
		PartNo:          p.PartNo,
	}
}
