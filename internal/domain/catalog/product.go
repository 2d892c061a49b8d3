package catalog

import (
	"strings"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a product/SKU in the global catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	PartNo      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Image       string          `gorm:"type:varchar(500)"` // opaque reference, storage is external
	Active      bool            `gorm:"not null;default:true"`
	TaxEnabled  bool            `gorm:"not null;default:true"`
	IsDeleted   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(partNo, name, unit string, unitPrice valueobject.Money) (*Product, error) {
	if err := validatePartNo(partNo); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartNo:            strings.ToUpper(partNo),
		Name:              name,
		Unit:              unit,
		UnitPrice:         unitPrice.Amount(),
		Active:            true,
		TaxEnabled:        true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(partNo, name, description, unit string, unitPrice valueobject.Money) error {
	if err := validatePartNo(partNo); err != nil {
		return err
	}
	if err := validateProductName(name); err != nil {
		return err
	}
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.PartNo = strings.ToUpper(partNo)
	p.Name = name
	p.Description = description
	p.Unit = unit
	p.UnitPrice = unitPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetImage sets the image reference for the product
func (p *Product) SetImage(image string) {
	p.Image = image
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetActive toggles whether the product is orderable
func (p *Product) SetActive(active bool) {
	if p.Active == active {
		return
	}
	p.Active = active
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !active {
		p.AddDomainEvent(NewProductDeactivatedEvent(p))
	}
}

// SetTaxEnabled toggles the default tax applicability for the product.
// Customer price list entries override this flag per customer.
func (p *Product) SetTaxEnabled(taxEnabled bool) {
	p.TaxEnabled = taxEnabled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// MarkDeleted soft-deletes the product
func (p *Product) MarkDeleted() {
	p.IsDeleted = true
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsOrderable returns true if the product can appear on new orders
func (p *Product) IsOrderable() bool {
	return p.Active && !p.IsDeleted
}

// GetUnitPriceMoney returns the canonical unit price as Money
func (p *Product) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnitPrice)
}

func validatePartNo(partNo string) error {
	if partNo == "" {
		return shared.NewDomainError("INVALID_PART_NO", "Part number cannot be empty")
	}
	if len(partNo) > 50 {
		return shared.NewDomainError("INVALID_PART_NO", "Part number cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
