package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertPriceRequest adds a product to a customer's price list or updates
// its negotiated price
type UpsertPriceRequest struct {
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
	TaxEnabled *bool            `json:"tax_enabled"`
}

// SetFavoriteRequest marks or unmarks a catalog entry as favorite
type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// SetTaxEnabledRequest overrides the tax flag on a catalog entry
type SetTaxEnabledRequest struct {
	TaxEnabled bool `json:"tax_enabled"`
}

// CatalogEntryResponse is one row of a customer's resolved catalog: product
// data joined with the customer's negotiated price and flags
type CatalogEntryResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	PartNo      string          `json:"part_no"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	TaxEnabled  bool            `json:"tax_enabled"`
	IsFavorite  bool            `json:"is_favorite"`
}

// AssignProductItem is one product in a bulk assignment. Price defaults to
// the product's canonical unit price; TaxEnabled defaults to the product's
// tax flag.
type AssignProductItem struct {
	ProductID  uuid.UUID        `json:"product_id" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
	TaxEnabled *bool            `json:"tax_enabled"`
}

// AssignProductsRequest assigns a set of products to a set of customers
type AssignProductsRequest struct {
	CustomerIDs []uuid.UUID         `json:"customer_ids" binding:"required,min=1"`
	Items       []AssignProductItem `json:"items" binding:"required,min=1,dive"`
}

// ImportPriceRow is one parsed row of a price list import. PartNo is the
// product business key; rows for unknown part numbers create the product.
type ImportPriceRow struct {
	PartNo     string
	Name       string
	Unit       string
	Price      decimal.Decimal
	TaxEnabled *bool
}

// ImportRowError records one import row that could not be applied
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult reports the outcome of a price list import
type ImportResult struct {
	Created         int              `json:"created"`
	Updated         int              `json:"updated"`
	ProductsCreated int              `json:"products_created"`
	Errors          []ImportRowError `json:"errors,omitempty"`
}

// AssignmentFailure records one customer whose assignment could not be applied
type AssignmentFailure struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Error      string    `json:"error"`
}

// AssignmentResult reports the outcome of a bulk assignment
type AssignmentResult struct {
	Created  int                 `json:"created"`
	Updated  int                 `json:"updated"`
	Failures []AssignmentFailure `json:"failures"`
}
