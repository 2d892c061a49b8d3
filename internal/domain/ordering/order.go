package ordering

import (
	"strings"
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax rate applied to tax-enabled order lines
var TaxRate = decimal.NewFromFloat(0.06)

// OrderStatus represents the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusFulfilled  OrderStatus = "FULFILLED"
)

// Order is a customer order with server-priced lines. Lines are immutable
// snapshots: part number, name, unit and price are copied from the customer's
// catalog at creation time so later catalog edits never change past orders.
type Order struct {
	shared.BaseAggregateRoot
	OrderNo        string          `gorm:"type:varchar(12);not null;uniqueIndex"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"type:varchar(200);not null"`
	CustomerEmail  string          `gorm:"type:varchar(200);not null"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PickupLocation string          `gorm:"type:varchar(200);not null"`
	PONumber       string          `gorm:"column:po_number;type:varchar(100)"`
	Comments       string          `gorm:"type:text"`
	DeliveryDate   *time.Time
	IsDeleted      bool `gorm:"not null;default:false"`
	FulfilledAt    *time.Time
	Lines          []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderMeta carries the customer-supplied order header fields. PickupLocation
// is the only required one.
type OrderMeta struct {
	PickupLocation string
	PONumber       string
	Comments       string
	DeliveryDate   *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one priced line on an order. Amount and Tax are computed once
// at construction and never recalculated.
type OrderLine struct {
	shared.BaseEntity
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	PartNo     string          `gorm:"type:varchar(50);not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	Unit       string          `gorm:"type:varchar(20);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity   int64           `gorm:"not null"`
	TaxEnabled bool            `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine prices one line. Amount is price times quantity rounded to
// cents; tax is 6% of the rounded amount, again rounded to cents, or zero
// when the line is not tax enabled. Rounding happens per step so totals are
// stable regardless of line count.
func NewOrderLine(productID uuid.UUID, partNo, name, unit string, price valueobject.Money, quantity int64, taxEnabled bool) (OrderLine, error) {
	if productID == uuid.Nil {
		return OrderLine{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return OrderLine{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return OrderLine{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	amount := price.MultiplyByInt(quantity).Round2()
	tax := valueobject.ZeroUSD()
	if taxEnabled {
		tax = amount.Multiply(TaxRate).Round2()
	}

	return OrderLine{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		PartNo:     partNo,
		Name:       name,
		Unit:       unit,
		Price:      price.Amount(),
		Quantity:   quantity,
		TaxEnabled: taxEnabled,
		Amount:     amount.Amount(),
		Tax:        tax.Amount(),
	}, nil
}

// NewOrder creates an order from already-priced lines and computes its totals
func NewOrder(orderNo string, customerID uuid.UUID, customerName, customerEmail string, meta OrderMeta, lines []OrderLine) (*Order, error) {
	if !ValidOrderNo(orderNo) {
		return nil, shared.NewDomainError("INVALID_ORDER_NO", "Order number must be 12 uppercase hex characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if strings.TrimSpace(meta.PickupLocation) == "" {
		return nil, shared.NewDomainError("INVALID_PICKUP_LOCATION", "Pickup location is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNo:           orderNo,
		CustomerID:        customerID,
		CustomerName:      customerName,
		CustomerEmail:     customerEmail,
		Status:            OrderStatusProcessing,
		PickupLocation:    strings.TrimSpace(meta.PickupLocation),
		PONumber:          meta.PONumber,
		Comments:          meta.Comments,
		DeliveryDate:      meta.DeliveryDate,
	}

	subtotal := valueobject.ZeroUSD()
	taxTotal := valueobject.ZeroUSD()
	for i := range lines {
		lines[i].OrderID = order.ID
		subtotal = subtotal.MustAdd(valueobject.NewMoneyUSD(lines[i].Amount))
		taxTotal = taxTotal.MustAdd(valueobject.NewMoneyUSD(lines[i].Tax))
	}
	order.Lines = lines
	order.Subtotal = subtotal.Amount()
	order.TaxTotal = taxTotal.Amount()
	order.Total = subtotal.MustAdd(taxTotal).Amount()

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// Fulfill transitions the order from processing to fulfilled. The transition
// is one way; fulfilled orders cannot move back.
func (o *Order) Fulfill() error {
	if o.IsDeleted {
		return shared.NewDomainError("ORDER_DELETED", "Cannot fulfill a deleted order")
	}
	if o.Status == OrderStatusFulfilled {
		return shared.NewDomainError("ORDER_ALREADY_FULFILLED", "Order is already fulfilled")
	}
	now := time.Now()
	o.Status = OrderStatusFulfilled
	o.FulfilledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderFulfilledEvent(o))

	return nil
}

// MarkDeleted logically deletes the order. It stays in the database for
// reporting but drops out of listings and exports.
func (o *Order) MarkDeleted() error {
	if o.IsDeleted {
		return shared.NewDomainError("ORDER_DELETED", "Order is already deleted")
	}
	o.IsDeleted = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// GetTotalMoney returns the order total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}
