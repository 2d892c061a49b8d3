package ordering

import (
	"context"
	"errors"
	"fmt"

	pricingapp "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderNoMaxAttempts bounds retries when a generated order number collides
// with an existing one
const orderNoMaxAttempts = 3

// OrderServiceConfig contains configuration for the order service
type OrderServiceConfig struct {
	// StrictLineValidation rejects the whole order when any requested line
	// is not on the customer's price list. When false, invalid lines are
	// dropped and the rest of the order goes through.
	StrictLineValidation bool
}

// CatalogResolver resolves a customer's orderable catalog. Satisfied by
// pricing.CatalogService, so order lines are priced from the exact entries
// the catalog screen shows.
type CatalogResolver interface {
	ResolveCustomerCatalog(ctx context.Context, customerID uuid.UUID) ([]pricingapp.CatalogEntryResponse, error)
}

// OrderService prices and manages customer orders. Pricing is server
// authoritative: only product references and quantities are taken from the
// request, prices always come from the resolved customer catalog.
type OrderService struct {
	orderRepo    ordering.OrderRepository
	customerRepo partner.CustomerRepository
	catalog      CatalogResolver
	config       OrderServiceConfig
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	customerRepo partner.CustomerRepository,
	catalog CatalogResolver,
	config OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		catalog:      catalog,
		config:       config,
		logger:       logger,
	}
}

// Create places a new order for the customer. Every line is priced from the
// customer's price list; requested lines that are not on it are either
// rejected or dropped depending on configuration.
func (s *OrderService) Create(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.CanOrder() {
		return nil, shared.NewDomainError("ORDERING_NOT_ALLOWED", "Account may not place orders")
	}

	lines, err := s.priceLines(ctx, customer.ID, req.Lines)
	if err != nil {
		return nil, err
	}

	meta := ordering.OrderMeta{
		PickupLocation: req.PickupLocation,
		PONumber:       req.PONumber,
		Comments:       req.Comments,
		DeliveryDate:   req.DeliveryDate,
	}

	var order *ordering.Order
	for attempt := 1; ; attempt++ {
		orderNo, err := ordering.GenerateOrderNo()
		if err != nil {
			return nil, err
		}
		order, err = ordering.NewOrder(orderNo, customer.ID, customer.Name, customer.Email, meta, lines)
		if err != nil {
			return nil, err
		}

		err = s.orderRepo.Save(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= orderNoMaxAttempts {
			return nil, err
		}
		s.logger.Warn("Order number collision, retrying",
			zap.String("order_no", orderNo),
			zap.Int("attempt", attempt))
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo),
		zap.String("customer_id", customer.ID.String()),
		zap.String("total", order.Total.StringFixed(2)))

	response := ToOrderResponse(order)
	return &response, nil
}

// priceLines resolves requested lines against the customer's catalog. The
// catalog comes from the same resolution the browse endpoints use, so a
// product excluded there (missing price entry, inactive, deleted) is
// equally unorderable here.
func (s *OrderService) priceLines(ctx context.Context, customerID uuid.UUID, requested []OrderLineRequest) ([]ordering.OrderLine, error) {
	if len(requested) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line")
	}

	entries, err := s.catalog.ResolveCustomerCatalog(ctx, customerID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]*pricingapp.CatalogEntryResponse, len(entries))
	for i := range entries {
		byProduct[entries[i].ProductID] = &entries[i]
	}

	lines := make([]ordering.OrderLine, 0, len(requested))
	for _, reqLine := range requested {
		entry := byProduct[reqLine.ProductID]
		if entry == nil {
			if s.config.StrictLineValidation {
				return nil, shared.NewDomainError("PRODUCT_NOT_IN_CATALOG",
					fmt.Sprintf("Product %s is not in your catalog", reqLine.ProductID))
			}
			s.logger.Warn("Dropping order line not in customer catalog",
				zap.String("customer_id", customerID.String()),
				zap.String("product_id", reqLine.ProductID.String()))
			continue
		}

		line, err := ordering.NewOrderLine(
			entry.ProductID, entry.PartNo, entry.Name, entry.Unit,
			valueobject.NewMoneyUSD(entry.Price), reqLine.Quantity, entry.TaxEnabled,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "No requested line is in your catalog")
	}
	return lines, nil
}

// GetByID retrieves an order. Non-admin callers only see their own orders.
func (s *OrderService) GetByID(ctx context.Context, orderID, requesterID uuid.UUID, admin bool) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted {
		return nil, shared.ErrNotFound
	}
	if !admin && order.CustomerID != requesterID {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders matching the filter. Non-admin callers are always
// scoped to their own orders regardless of the requested filter.
func (s *OrderService) List(ctx context.Context, filter OrderListFilter, requesterID uuid.UUID, admin bool) ([]OrderResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter, requesterID, admin)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// Delete logically deletes an order. Customers may delete their own orders
// while still processing; admins may delete any order.
func (s *OrderService) Delete(ctx context.Context, orderID, requesterID uuid.UUID, admin bool) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsDeleted {
		return shared.ErrNotFound
	}
	if !admin {
		if order.CustomerID != requesterID {
			return shared.ErrForbidden
		}
		if order.Status != ordering.OrderStatusProcessing {
			return shared.NewDomainError("ORDER_ALREADY_FULFILLED", "Fulfilled orders cannot be deleted")
		}
	}

	if err := order.MarkDeleted(); err != nil {
		return err
	}
	return s.orderRepo.Save(ctx, order)
}

// FulfillOrders marks a batch of orders as fulfilled. Each order is handled
// independently; failures are reported per order and do not abort the batch.
func (s *OrderService) FulfillOrders(ctx context.Context, req FulfillOrdersRequest) (*FulfillResult, error) {
	orders, err := s.orderRepo.FindByIDs(ctx, req.OrderIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*ordering.Order, len(orders))
	for i := range orders {
		byID[orders[i].ID] = &orders[i]
	}

	result := &FulfillResult{}
	for _, orderID := range req.OrderIDs {
		order, ok := byID[orderID]
		if !ok {
			result.Failures = append(result.Failures, FulfillFailure{OrderID: orderID, Error: "order not found"})
			continue
		}
		if err := order.Fulfill(); err != nil {
			result.Failures = append(result.Failures, FulfillFailure{OrderID: orderID, Error: err.Error()})
			continue
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			result.Failures = append(result.Failures, FulfillFailure{OrderID: orderID, Error: err.Error()})
			continue
		}
		result.Fulfilled = append(result.Fulfilled, orderID)
	}

	s.logger.Info("Bulk fulfillment completed",
		zap.Int("requested", len(req.OrderIDs)),
		zap.Int("fulfilled", len(result.Fulfilled)),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}

// ExportOrders returns the matching orders flattened to one row per line,
// order header fields repeated on each row
func (s *OrderService) ExportOrders(ctx context.Context, filter OrderListFilter) ([]ExportRow, error) {
	domainFilter := s.toDomainFilter(filter, uuid.Nil, true)
	// export is unpaginated
	domainFilter.Page = 0
	domainFilter.PageSize = 0

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		for j := range order.Lines {
			line := &order.Lines[j]
			rows = append(rows, ExportRow{
				OrderNo:        order.OrderNo,
				OrderDate:      order.CreatedAt,
				CustomerName:   order.CustomerName,
				CustomerEmail:  order.CustomerEmail,
				Status:         string(order.Status),
				PickupLocation: order.PickupLocation,
				PONumber:       order.PONumber,
				DeliveryDate:   order.DeliveryDate,
				PartNo:         line.PartNo,
				ProductName:    line.Name,
				Unit:           line.Unit,
				Quantity:       line.Quantity,
				Price:          line.Price,
				Amount:         line.Amount,
				Tax:            line.Tax,
				OrderTotal:     order.Total,
			})
		}
	}
	return rows, nil
}

func (s *OrderService) toDomainFilter(filter OrderListFilter, requesterID uuid.UUID, admin bool) ordering.OrderFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := ordering.OrderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Search:   filter.Search,
			Filters:  make(map[string]interface{}),
		},
		CustomerID: filter.CustomerID,
		From:       filter.From,
		To:         filter.To,
	}
	if !admin {
		domainFilter.CustomerID = &requesterID
	}
	if filter.Status != nil {
		status := ordering.OrderStatus(*filter.Status)
		domainFilter.Status = &status
	}
	return domainFilter
}
