package catalog

import (
	"context"

	"github.com/google/uuid"

	applicationledger "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductService handles product catalog operations
type ProductService struct {
	scope    applicationledger.TransactionScope
	products catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(scope applicationledger.TransactionScope, products catalog.ProductRepository) *ProductService {
	return &ProductService{
		scope:    scope,
		products: products,
	}
}

// Create creates a product and seeds its opening stock through the ledger in
// one transaction. Even a zero initial stock writes the opening IMPORT entry
// so every product's history starts at its creation.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, actor identity.Actor) (*ProductResponse, error) {
	if req.InitialStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.Image, req.Price, req.OriginalPrice)
	if err != nil {
		return nil, err
	}

	var created *catalog.Product
	err = s.scope.Execute(ctx, func(repos applicationledger.TransactionalRepositories) error {
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		entry, err := applicationledger.Apply(ctx, repos, applicationledger.ApplyRequest{
			ProductID: product.ID,
			Type:      ledger.EntryTypeImport,
			Change:    req.InitialStock,
			Actor:     actor,
			Reason:    "initial stock",
		})
		if err != nil {
			return err
		}
		product.Stock = entry.CurrentStock
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(created), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List retrieves products with the total count
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	items, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toProductResponses(items), total, nil
}

// Update modifies a product's catalog fields and returns the before/after
// change set for the audit trail. Stock and Sold are never written here.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, *audit.Change, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	before := *toProductResponse(product)
	if err := product.Update(req.Name, req.SKU, req.Image, req.Price, req.OriginalPrice, req.IsAvailable); err != nil {
		return nil, nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, nil, err
	}

	after := toProductResponse(product)
	return after, &audit.Change{Old: before, New: *after}, nil
}

// Delete soft-deletes a product and returns the deleted record so the audit
// trail can capture what was removed.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (*ProductResponse, *audit.Change, error) {
	deleted, err := s.products.SoftDelete(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	resp := toProductResponse(deleted)
	return resp, &audit.Change{Old: *resp}, nil
}
