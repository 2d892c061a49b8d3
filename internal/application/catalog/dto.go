package catalog

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	PartNo      string          `json:"part_no" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Unit        string          `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Image       string          `json:"image" binding:"max=500"`
	TaxEnabled  *bool           `json:"tax_enabled"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	PartNo      *string          `json:"part_no" binding:"omitempty,min=1,max=50"`
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Unit        *string          `json:"unit" binding:"omitempty,min=1,max=20"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Image       *string          `json:"image" binding:"omitempty,max=500"`
	Active      *bool            `json:"active"`
	TaxEnabled  *bool            `json:"tax_enabled"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartNo      string          `json:"part_no"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Image       string          `json:"image"`
	Active      bool            `json:"active"`
	TaxEnabled  bool            `json:"tax_enabled"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		PartNo:      p.PartNo,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
		Image:       p.Image,
		Active:      p.Active,
		TaxEnabled:  p.TaxEnabled,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
