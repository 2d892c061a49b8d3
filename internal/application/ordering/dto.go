package ordering

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one requested line on a new order. Only the product
// reference and quantity are accepted from the client; price and tax come
// from the customer's price list on the server.
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest places a new order
type CreateOrderRequest struct {
	Lines          []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	PickupLocation string             `json:"pickup_location" binding:"required,max=200"`
	PONumber       string             `json:"po_number" binding:"max=100"`
	Comments       string             `json:"comments" binding:"max=2000"`
	DeliveryDate   *time.Time         `json:"delivery_date"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	PartNo     string          `json:"part_no"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	TaxEnabled bool            `json:"tax_enabled"`
	Amount     decimal.Decimal `json:"amount"`
	Tax        decimal.Decimal `json:"tax"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNo        string              `json:"order_no"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email"`
	Status         string              `json:"status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TaxTotal       decimal.Decimal     `json:"tax_total"`
	Total          decimal.Decimal     `json:"total"`
	PickupLocation string              `json:"pickup_location"`
	PONumber       string              `json:"po_number,omitempty"`
	Comments       string              `json:"comments,omitempty"`
	DeliveryDate   *time.Time          `json:"delivery_date,omitempty"`
	FulfilledAt    *time.Time          `json:"fulfilled_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Lines          []OrderLineResponse `json:"lines"`
}

// OrderListFilter represents filter options for order listings
type OrderListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     *string    `form:"status" binding:"omitempty,oneof=PROCESSING FULFILLED"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FulfillOrdersRequest marks a batch of orders as fulfilled
type FulfillOrdersRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required,min=1"`
}

// FulfillFailure records one order that could not be fulfilled
type FulfillFailure struct {
	OrderID uuid.UUID `json:"order_id"`
	Error   string    `json:"error"`
}

// FulfillResult reports the outcome of a bulk fulfillment
type FulfillResult struct {
	Fulfilled []uuid.UUID      `json:"fulfilled"`
	Failures  []FulfillFailure `json:"failures"`
}

// ExportRow is one flattened line of the order export: order header fields
// repeated for every line
type ExportRow struct {
	OrderNo        string          `json:"order_no"`
	OrderDate      time.Time       `json:"order_date"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	Status         string          `json:"status"`
	PickupLocation string          `json:"pickup_location"`
	PONumber       string          `json:"po_number"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	PartNo         string          `json:"part_no"`
	ProductName    string          `json:"product_name"`
	Unit           string          `json:"unit"`
	Quantity       int64           `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Amount         decimal.Decimal `json:"amount"`
	Tax            decimal.Decimal `json:"tax"`
	OrderTotal     decimal.Decimal `json:"order_total"`
}

// ToOrderLineResponse converts a domain OrderLine to OrderLineResponse
func ToOrderLineResponse(line *ordering.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:         line.ID,
		ProductID:  line.ProductID,
		PartNo:     line.PartNo,
		Name:       line.Name,
		Unit:       line.Unit,
		Price:      line.Price,
		Quantity:   line.Quantity,
		TaxEnabled: line.TaxEnabled,
		Amount:     line.Amount,
		Tax:        line.Tax,
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *ordering.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i := range o.Lines {
		lines[i] = ToOrderLineResponse(&o.Lines[i])
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNo:        o.OrderNo,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Status:         string(o.Status),
		Subtotal:       o.Subtotal,
		TaxTotal:       o.TaxTotal,
		Total:          o.Total,
		PickupLocation: o.PickupLocation,
		PONumber:       o.PONumber,
		Comments:       o.Comments,
		DeliveryDate:   o.DeliveryDate,
		FulfilledAt:    o.FulfilledAt,
		CreatedAt:      o.CreatedAt,
		Lines:          lines,
	}
}

// ToOrderResponses converts a slice of domain Orders to responses
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
