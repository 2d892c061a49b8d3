package pricing

import (
	"context"

	"github.com/google/uuid"
)

// PriceListRepository defines the interface for price list persistence
type PriceListRepository interface {
	// FindByCustomerID finds a customer's price list with entries loaded.
	// Returns ErrNotFound if the customer has no list yet.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*CustomerPriceList, error)

	// FindByCustomerIDs loads price lists for several customers in one query
	FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]CustomerPriceList, error)

	// Save creates or updates a price list together with its entries
	Save(ctx context.Context, list *CustomerPriceList) error

	// RemoveProductFromAllLists removes every entry referencing the product.
	// Used when a product is deleted from the global catalog.
	RemoveProductFromAllLists(ctx context.Context, productID uuid.UUID) error
}
