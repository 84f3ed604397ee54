package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// FindByID finds a non-deleted product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDUnscoped finds a product by ID including soft-deleted records.
	// The ledger engine uses it: existence is its only precondition.
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, product *Product) error
	Save(ctx context.Context, product *Product) error
	// SoftDelete marks the product deleted and returns the record as it was
	SoftDelete(ctx context.Context, id uuid.UUID) (*Product, error)
	// AdjustCounters atomically applies a stock delta (conditional on the
	// result staying non-negative) and a sold delta (floored at zero), and
	// returns the product as persisted. It returns shared.ErrInsufficientStock
	// when the condition fails and shared.ErrNotFound when the product does
	// not exist. This is the only write path for Stock and Sold.
	AdjustCounters(ctx context.Context, id uuid.UUID, stockDelta, soldDelta int64) (*Product, error)
}
