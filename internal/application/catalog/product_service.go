package catalog

import (
	"context"
	"strings"

	"github.com/b2bportal/backend/internal/domain/catalog"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo   catalog.ProductRepository
	priceListRepo pricing.PriceListRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, priceListRepo pricing.PriceListRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		priceListRepo: priceListRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByPartNo(ctx, strings.ToUpper(req.PartNo))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this part number already exists")
	}

	product, err := catalog.NewProduct(req.PartNo, req.Name, req.Unit, valueobject.NewMoneyUSD(req.UnitPrice))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(product.PartNo, product.Name, req.Description, product.Unit, product.GetUnitPriceMoney()); err != nil {
			return nil, err
		}
	}
	if req.Image != "" {
		product.SetImage(req.Image)
	}
	if req.TaxEnabled != nil {
		product.SetTaxEnabled(*req.TaxEnabled)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByPartNo retrieves a product by its part number
func (s *ProductService) GetByPartNo(ctx context.Context, partNo string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByPartNo(ctx, strings.ToUpper(partNo))
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "part_no"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	partNo := product.PartNo
	name := product.Name
	description := product.Description
	unit := product.Unit
	unitPrice := product.GetUnitPriceMoney()

	if req.PartNo != nil {
		newPartNo := strings.ToUpper(*req.PartNo)
		if newPartNo != product.PartNo {
			exists, err := s.productRepo.ExistsByPartNo(ctx, newPartNo)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this part number already exists")
			}
		}
		partNo = newPartNo
	}
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.UnitPrice != nil {
		unitPrice = valueobject.NewMoneyUSD(*req.UnitPrice)
	}

	if err := product.Update(partNo, name, description, unit, unitPrice); err != nil {
		return nil, err
	}

	if req.Image != nil {
		product.SetImage(*req.Image)
	}
	if req.Active != nil {
		product.SetActive(*req.Active)
	}
	if req.TaxEnabled != nil {
		product.SetTaxEnabled(*req.TaxEnabled)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete soft-deletes a product and removes it from every customer price
// list so it can no longer be ordered. Existing order lines keep their
// snapshot of the product.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	product.MarkDeleted()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	return s.priceListRepo.RemoveProductFromAllLists(ctx, productID)
}
