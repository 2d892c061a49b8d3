package catalog

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds products by IDs in a single batch
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByPartNo finds a product by its business key
	FindByPartNo(ctx context.Context, partNo string) (*Product, error)

	// FindAll finds all products with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ExistsByPartNo checks if a part number is already taken
	ExistsByPartNo(ctx context.Context, partNo string) (bool, error)
}
