package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/partner"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CatalogCache caches resolved customer catalogs. Implementations must treat
// cache failures as misses; the database remains the source of truth.
type CatalogCache interface {
	Get(ctx context.Context, customerID uuid.UUID) ([]CatalogEntryResponse, bool)
	Set(ctx context.Context, customerID uuid.UUID, entries []CatalogEntryResponse)
	Invalidate(ctx context.Context, customerID uuid.UUID)
}

// CatalogService resolves per-customer catalogs and manages price list
// assignments
type CatalogService struct {
	customerRepo  partner.CustomerRepository
	productRepo   catalog.ProductRepository
	priceListRepo pricing.PriceListRepository
	cache         CatalogCache
	concurrency   int
}

// NewCatalogService creates a new CatalogService. Concurrency bounds the
// number of customers processed in parallel during bulk assignment.
func NewCatalogService(
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	priceListRepo pricing.PriceListRepository,
	concurrency int,
) *CatalogService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CatalogService{
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		priceListRepo: priceListRepo,
		concurrency:   concurrency,
	}
}

// SetCache sets an optional read-through cache for resolved catalogs
func (s *CatalogService) SetCache(cache CatalogCache) {
	s.cache = cache
}

// ResolveCustomerCatalog returns the customer's orderable catalog: every
// price list entry joined with its product, excluding deleted and inactive
// products. A customer without a price list gets an empty catalog, not an
// error. Favorites sort first, then part number.
func (s *CatalogService) ResolveCustomerCatalog(ctx context.Context, customerID uuid.UUID) ([]CatalogEntryResponse, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, customerID); ok {
			return entries, nil
		}
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	list, err := s.priceListRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []CatalogEntryResponse{}, nil
		}
		return nil, err
	}

	entries, err := s.resolveEntries(ctx, list)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, customerID, entries)
	}
	return entries, nil
}

func (s *CatalogService) resolveEntries(ctx context.Context, list *pricing.CustomerPriceList) ([]CatalogEntryResponse, error) {
	if len(list.Entries) == 0 {
		return []CatalogEntryResponse{}, nil
	}

	productIDs := make([]uuid.UUID, len(list.Entries))
	for i, entry := range list.Entries {
		productIDs[i] = entry.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	entries := make([]CatalogEntryResponse, 0, len(list.Entries))
	for _, entry := range list.Entries {
		product, ok := byID[entry.ProductID]
		if !ok || !product.IsOrderable() {
			continue
		}
		entries = append(entries, CatalogEntryResponse{
			ProductID:   product.ID,
			PartNo:      product.PartNo,
			Name:        product.Name,
			Description: product.Description,
			Unit:        product.Unit,
			Image:       product.Image,
			Price:       entry.Price,
			TaxEnabled:  entry.TaxEnabled,
			IsFavorite:  entry.IsFavorite,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsFavorite != entries[j].IsFavorite {
			return entries[i].IsFavorite
		}
		return entries[i].PartNo < entries[j].PartNo
	})

	return entries, nil
}

// UpsertCustomerPrice adds a product to a customer's price list or updates
// its negotiated price. Price defaults to the product's canonical unit price
// and the tax flag to the product's default. Returns true when a new entry
// was created.
func (s *CatalogService) UpsertCustomerPrice(ctx context.Context, customerID uuid.UUID, req UpsertPriceRequest) (bool, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return false, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return false, err
	}
	if !product.IsOrderable() {
		return false, shared.NewDomainError("PRODUCT_NOT_ORDERABLE", "Product is inactive or deleted")
	}

	list, err := s.loadOrCreateList(ctx, customerID)
	if err != nil {
		return false, err
	}

	price := product.GetUnitPriceMoney()
	if req.Price != nil {
		price = valueobject.NewMoneyUSD(*req.Price)
	}
	taxEnabled := product.TaxEnabled
	if req.TaxEnabled != nil {
		taxEnabled = *req.TaxEnabled
	}

	created, err := list.UpsertEntry(product.ID, price, taxEnabled)
	if err != nil {
		return false, err
	}
	if err := s.priceListRepo.Save(ctx, list); err != nil {
		return false, err
	}
	s.invalidate(ctx, customerID)
	return created, nil
}

// RemoveCustomerPrice removes a product from a customer's price list
func (s *CatalogService) RemoveCustomerPrice(ctx context.Context, customerID, productID uuid.UUID) error {
	list, err := s.priceListRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := list.RemoveEntry(productID); err != nil {
		return err
	}
	if err := s.priceListRepo.Save(ctx, list); err != nil {
		return err
	}
	s.invalidate(ctx, customerID)
	return nil
}

// SetFavorite marks or unmarks a product as favorite on a customer's catalog
func (s *CatalogService) SetFavorite(ctx context.Context, customerID, productID uuid.UUID, favorite bool) error {
	list, err := s.priceListRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := list.SetEntryFavorite(productID, favorite); err != nil {
		return err
	}
	if err := s.priceListRepo.Save(ctx, list); err != nil {
		return err
	}
	s.invalidate(ctx, customerID)
	return nil
}

// SetTaxEnabled overrides the tax flag for one product on a customer's
// price list
func (s *CatalogService) SetTaxEnabled(ctx context.Context, customerID, productID uuid.UUID, taxEnabled bool) error {
	list, err := s.priceListRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := list.SetEntryTaxEnabled(productID, taxEnabled); err != nil {
		return err
	}
	if err := s.priceListRepo.Save(ctx, list); err != nil {
		return err
	}
	s.invalidate(ctx, customerID)
	return nil
}

// AssignProductsToCustomers applies a set of products to multiple customer
// price lists. The whole batch is validated up front; if any referenced
// customer or product is missing the request fails without touching any
// list. Per-customer application then runs with bounded concurrency, and
// customers that fail individually are reported without aborting the rest.
func (s *CatalogService) AssignProductsToCustomers(ctx context.Context, req AssignProductsRequest) (*AssignmentResult, error) {
	products, err := s.validateAssignment(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result AssignmentResult
	)
	sem := make(chan struct{}, s.concurrency)

	for _, customerID := range req.CustomerIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(customerID uuid.UUID) {
			defer wg.Done()
			defer func() { <-sem }()

			created, updated, err := s.assignToCustomer(ctx, customerID, req.Items, products)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, AssignmentFailure{
					CustomerID: customerID,
					Error:      err.Error(),
				})
				return
			}
			result.Created += created
			result.Updated += updated
		}(customerID)
	}
	wg.Wait()

	return &result, nil
}

// validateAssignment checks every referenced customer and product before any
// price list is touched
func (s *CatalogService) validateAssignment(ctx context.Context, req AssignProductsRequest) (map[uuid.UUID]*catalog.Product, error) {
	customers, err := s.customerRepo.FindByIDs(ctx, req.CustomerIDs)
	if err != nil {
		return nil, err
	}
	if missing := missingIDs(req.CustomerIDs, customerIDSet(customers)); len(missing) > 0 {
		return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", fmt.Sprintf("Unknown customers: %s", joinIDs(missing)))
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		if products[i].IsOrderable() {
			byID[products[i].ID] = &products[i]
		}
	}
	if missing := missingIDs(productIDs, productIDSet(byID)); len(missing) > 0 {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Unknown or unorderable products: %s", joinIDs(missing)))
	}

	return byID, nil
}

func (s *CatalogService) assignToCustomer(ctx context.Context, customerID uuid.UUID, items []AssignProductItem, products map[uuid.UUID]*catalog.Product) (created, updated int, err error) {
	list, err := s.loadOrCreateList(ctx, customerID)
	if err != nil {
		return 0, 0, err
	}

	for _, item := range items {
		product := products[item.ProductID]

		price := product.GetUnitPriceMoney()
		if item.Price != nil {
			price = valueobject.NewMoneyUSD(*item.Price)
		}
		taxEnabled := product.TaxEnabled
		if item.TaxEnabled != nil {
			taxEnabled = *item.TaxEnabled
		}

		wasCreated, err := list.UpsertEntry(product.ID, price, taxEnabled)
		if err != nil {
			return 0, 0, err
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}

	if err := s.priceListRepo.Save(ctx, list); err != nil {
		return 0, 0, err
	}
	s.invalidate(ctx, customerID)
	return created, updated, nil
}

// ImportCustomerPrices applies a parsed price list import to one customer.
// Rows are keyed by part number; unknown part numbers create the product
// first. Rows are applied independently and failures reported per row, the
// list is saved once at the end.
func (s *CatalogService) ImportCustomerPrices(ctx context.Context, customerID uuid.UUID, rows []ImportPriceRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, shared.NewDomainError("EMPTY_IMPORT", "Import contains no rows")
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	list, err := s.loadOrCreateList(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		rowNo := i + 1
		if row.Price.IsNegative() {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Error: "price cannot be negative"})
			continue
		}

		product, err := s.productRepo.FindByPartNo(ctx, row.PartNo)
		if errors.Is(err, shared.ErrNotFound) {
			product, err = catalog.NewProduct(row.PartNo, row.Name, row.Unit, valueobject.NewMoneyUSD(row.Price))
			if err == nil {
				err = s.productRepo.Save(ctx, product)
			}
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Error: err.Error()})
				continue
			}
			result.ProductsCreated++
		} else if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}

		taxEnabled := product.TaxEnabled
		if row.TaxEnabled != nil {
			taxEnabled = *row.TaxEnabled
		}
		created, err := list.UpsertEntry(product.ID, valueobject.NewMoneyUSD(row.Price), taxEnabled)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if result.Created+result.Updated > 0 {
		if err := s.priceListRepo.Save(ctx, list); err != nil {
			return nil, err
		}
		s.invalidate(ctx, customerID)
	}
	return result, nil
}

func (s *CatalogService) loadOrCreateList(ctx context.Context, customerID uuid.UUID) (*pricing.CustomerPriceList, error) {
	list, err := s.priceListRepo.FindByCustomerID(ctx, customerID)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return pricing.NewCustomerPriceList(customerID)
}

func (s *CatalogService) invalidate(ctx context.Context, customerID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, customerID)
	}
}

// InvalidateCustomerCatalog drops the cached catalog for one customer. Used
// by event handlers reacting to price list changes from other processes.
func (s *CatalogService) InvalidateCustomerCatalog(ctx context.Context, customerID uuid.UUID) {
	s.invalidate(ctx, customerID)
}

func customerIDSet(customers []partner.Customer) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(customers))
	for i := range customers {
		set[customers[i].ID] = struct{}{}
	}
	return set
}

func productIDSet(products map[uuid.UUID]*catalog.Product) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(products))
	for id := range products {
		set[id] = struct{}{}
	}
	return set
}

func missingIDs(wanted []uuid.UUID, found map[uuid.UUID]struct{}) []uuid.UUID {
	var missing []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(wanted))
	for _, id := range wanted {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
