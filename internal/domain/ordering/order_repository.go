package ordering

import (
	"context"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter extends the common filter with order-specific criteria.
// CustomerID scopes listings to one customer; non-admin callers always set it.
type OrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *OrderStatus
	From       *time.Time
	To         *time.Time
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its lines loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDs finds orders by IDs with lines loaded
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Order, error)

	// FindByOrderNo finds an order by its order number
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// FindAll finds orders matching the filter, newest first.
	// Logically deleted orders are excluded.
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// Save creates or updates an order together with its lines
	Save(ctx context.Context, order *Order) error
}
