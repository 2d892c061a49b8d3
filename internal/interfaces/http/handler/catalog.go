package handler

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	pricingapp "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles per-customer catalog and price list endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *pricingapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *pricingapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers catalog routes. Customers read their own
// catalog and manage favorites; price list management is admin-only.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	catalog.GET("", h.MyCatalog)
	catalog.PUT("/favorites/:productId", h.SetFavorite)

	admin := rg.Group("/customers/:id")
	admin.Use(middleware.AdminRequired())
	admin.GET("/catalog", h.CustomerCatalog)
	admin.PUT("/prices", h.UpsertPrice)
	admin.POST("/prices/import", h.ImportPrices)
	admin.DELETE("/prices/:productId", h.RemovePrice)
	admin.PUT("/prices/:productId/tax", h.SetTaxEnabled)

	assignments := rg.Group("/catalog/assignments")
	assignments.Use(middleware.AdminRequired())
	assignments.POST("", h.AssignProducts)
}

// MyCatalog returns the authenticated customer's orderable catalog
func (h *CatalogHandler) MyCatalog(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entries, err := h.catalogService.ResolveCustomerCatalog(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// SetFavorite marks or unmarks a product on the authenticated customer's
// catalog
func (h *CatalogHandler) SetFavorite(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req pricingapp.SetFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.catalogService.SetFavorite(c.Request.Context(), customerID, productID, req.Favorite); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CustomerCatalog returns a customer's resolved catalog for admin review
func (h *CatalogHandler) CustomerCatalog(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	entries, err := h.catalogService.ResolveCustomerCatalog(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// UpsertPrice adds a product to a customer's price list or updates its
// negotiated price
func (h *CatalogHandler) UpsertPrice(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req pricingapp.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.catalogService.UpsertCustomerPrice(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if created {
		h.Created(c, gin.H{"created": true})
		return
	}
	h.Success(c, gin.H{"created": false})
}

// RemovePrice removes a product from a customer's price list
func (h *CatalogHandler) RemovePrice(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.catalogService.RemoveCustomerPrice(c.Request.Context(), customerID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SetTaxEnabled overrides the tax flag on one customer price entry
func (h *CatalogHandler) SetTaxEnabled(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req pricingapp.SetTaxEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.catalogService.SetTaxEnabled(c.Request.Context(), customerID, productID, req.TaxEnabled); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ImportPrices imports a CSV price list for one customer. Expected columns:
// part_no, name, unit, price, tax_enabled (optional). Unknown part numbers
// create the product.
func (h *CatalogHandler) ImportPrices(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	rows, err := parseImportCSV(c.Request.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.catalogService.ImportCustomerPrices(c.Request.Context(), customerID, rows)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// parseImportCSV reads price list import rows. The first record must be the
// header; column order is fixed.
func parseImportCSV(r io.Reader) ([]pricingapp.ImportPriceRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMPORT", "Missing CSV header")
	}
	if len(header) < 4 {
		return nil, shared.NewDomainError("INVALID_IMPORT", "Expected columns: part_no, name, unit, price, tax_enabled")
	}

	var rows []pricingapp.ImportPriceRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shared.NewDomainError("INVALID_IMPORT", fmt.Sprintf("Malformed CSV on line %d", line))
		}
		if len(record) < 4 {
			return nil, shared.NewDomainError("INVALID_IMPORT", fmt.Sprintf("Too few columns on line %d", line))
		}

		price, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, shared.NewDomainError("INVALID_IMPORT", fmt.Sprintf("Invalid price on line %d", line))
		}

		row := pricingapp.ImportPriceRow{
			PartNo: strings.TrimSpace(record[0]),
			Name:   strings.TrimSpace(record[1]),
			Unit:   strings.TrimSpace(record[2]),
			Price:  price,
		}
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			taxEnabled, err := strconv.ParseBool(strings.TrimSpace(record[4]))
			if err != nil {
				return nil, shared.NewDomainError("INVALID_IMPORT", fmt.Sprintf("Invalid tax flag on line %d", line))
			}
			row.TaxEnabled = &taxEnabled
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AssignProducts applies a set of products to multiple customer price
// lists in one request
func (h *CatalogHandler) AssignProducts(c *gin.Context) {
	var req pricingapp.AssignProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.AssignProductsToCustomers(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
