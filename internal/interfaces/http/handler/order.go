package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	orderingapp "github.com/b2bportal/backend/internal/application/ordering"
	"github.com/b2bportal/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order routes. Customers place and read their
// own orders; fulfillment and export are admin-only.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.DELETE("/:id", h.Delete)

	admin := rg.Group("/orders")
	admin.Use(middleware.AdminRequired())
	admin.POST("/fulfill", h.Fulfill)
	admin.GET("/export", h.Export)
}

// Create places a new order for the authenticated customer. Prices and
// tax are resolved from the customer's price list on the server.
func (h *OrderHandler) Create(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID retrieves an order. Customers can only read their own orders.
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	requesterID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID, requesterID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List retrieves orders with filtering and pagination. Non-admin callers
// are always scoped to their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	requesterID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter, requesterID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Delete soft-deletes an order. Customers can only delete their own
// unfulfilled orders.
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	requesterID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID, requesterID, isAdmin(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Fulfill marks a batch of orders as fulfilled. Failures are reported
// per order without aborting the batch.
func (h *OrderHandler) Fulfill(c *gin.Context) {
	var req orderingapp.FulfillOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.FulfillOrders(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Export streams matching orders as CSV, one row per order line with the
// order header repeated
func (h *OrderHandler) Export(c *gin.Context) {
	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, err := h.orderService.ExportOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	header := []string{
		"order_no", "order_date", "customer_name", "customer_email", "status",
		"pickup_location", "po_number", "delivery_date",
		"part_no", "product_name", "unit", "quantity", "price", "amount", "tax", "order_total",
	}
	if err := w.Write(header); err != nil {
		return
	}
	for _, row := range rows {
		deliveryDate := ""
		if row.DeliveryDate != nil {
			deliveryDate = row.DeliveryDate.Format("2006-01-02")
		}
		record := []string{
			row.OrderNo,
			row.OrderDate.Format(time.RFC3339),
			row.CustomerName,
			row.CustomerEmail,
			row.Status,
			row.PickupLocation,
			row.PONumber,
			deliveryDate,
			row.PartNo,
			row.ProductName,
			row.Unit,
			strconv.FormatInt(row.Quantity, 10),
			row.Price.StringFixed(2),
			row.Amount.StringFixed(2),
			row.Tax.StringFixed(2),
			row.OrderTotal.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return
		}
	}
	w.Flush()
}
