package partner

import (
	"context"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDs finds customers by IDs in a single batch
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Customer, error)

	// FindByEmail finds a customer by normalized email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindAll finds all customers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindAdmins finds all admin accounts
	FindAdmins(ctx context.Context) ([]Customer, error)

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
