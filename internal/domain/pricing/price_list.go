package pricing

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerPriceList holds the per-customer catalog: the set of products a
// customer may order, each with its negotiated price and tax flag. It is the
// aggregate root; entries are only reachable through it. A customer without a
// price list (or with an empty one) sees an empty catalog.
type CustomerPriceList struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	Entries    []CustomerPriceEntry `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CustomerPriceList) TableName() string {
	return "customer_price_lists"
}

// CustomerPriceEntry is one product on a customer's price list. Price and
// TaxEnabled override the product's canonical values for this customer.
type CustomerPriceEntry struct {
	shared.BaseEntity
	PriceListID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_product"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_price_list_product"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxEnabled  bool            `gorm:"not null;default:true"`
	IsFavorite  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerPriceEntry) TableName() string {
	return "customer_price_entries"
}

// GetPriceMoney returns the negotiated price as Money
func (e *CustomerPriceEntry) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(e.Price)
}

// NewCustomerPriceList creates an empty price list for a customer
func NewCustomerPriceList(customerID uuid.UUID) (*CustomerPriceList, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &CustomerPriceList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Entries:           []CustomerPriceEntry{},
	}, nil
}

// UpsertEntry adds a product to the list or updates its price and tax flag if
// already present. Matching is by product; the favorite flag survives updates.
// Returns true when a new entry was created.
func (l *CustomerPriceList) UpsertEntry(productID uuid.UUID, price valueobject.Money, taxEnabled bool) (bool, error) {
	if productID == uuid.Nil {
		return false, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if price.IsNegative() {
		return false, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	for i := range l.Entries {
		if l.Entries[i].ProductID == productID {
			l.Entries[i].Price = price.Amount()
			l.Entries[i].TaxEnabled = taxEnabled
			l.Entries[i].UpdatedAt = time.Now()
			l.touch()
			return false, nil
		}
	}

	entry := CustomerPriceEntry{
		BaseEntity:  shared.NewBaseEntity(),
		PriceListID: l.ID,
		ProductID:   productID,
		Price:       price.Amount(),
		TaxEnabled:  taxEnabled,
	}
	l.Entries = append(l.Entries, entry)
	l.touch()
	return true, nil
}

// SetEntryTaxEnabled overrides the tax flag for one product on this list
func (l *CustomerPriceList) SetEntryTaxEnabled(productID uuid.UUID, taxEnabled bool) error {
	entry := l.findEntry(productID)
	if entry == nil {
		return shared.NewDomainError("PRICE_ENTRY_NOT_FOUND", "Product is not on this price list")
	}
	entry.TaxEnabled = taxEnabled
	entry.UpdatedAt = time.Now()
	l.touch()
	return nil
}

// SetEntryFavorite marks or unmarks a product as a favorite for this customer
func (l *CustomerPriceList) SetEntryFavorite(productID uuid.UUID, favorite bool) error {
	entry := l.findEntry(productID)
	if entry == nil {
		return shared.NewDomainError("PRICE_ENTRY_NOT_FOUND", "Product is not on this price list")
	}
	entry.IsFavorite = favorite
	entry.UpdatedAt = time.Now()
	l.touch()
	return nil
}

// RemoveEntry removes a product from the list
func (l *CustomerPriceList) RemoveEntry(productID uuid.UUID) error {
	for i := range l.Entries {
		if l.Entries[i].ProductID == productID {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			l.touch()
			return nil
		}
	}
	return shared.NewDomainError("PRICE_ENTRY_NOT_FOUND", "Product is not on this price list")
}

// EntryFor returns the entry for a product, or nil if the product is not on
// the list. Callers must not assume presence; absence means the customer
// cannot order the product.
func (l *CustomerPriceList) EntryFor(productID uuid.UUID) *CustomerPriceEntry {
	return l.findEntry(productID)
}

// HasProduct reports whether the product is on this price list
func (l *CustomerPriceList) HasProduct(productID uuid.UUID) bool {
	return l.findEntry(productID) != nil
}

func (l *CustomerPriceList) findEntry(productID uuid.UUID) *CustomerPriceEntry {
	for i := range l.Entries {
		if l.Entries[i].ProductID == productID {
			return &l.Entries[i]
		}
	}
	return nil
}

func (l *CustomerPriceList) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewPriceListChangedEvent(l))
}
