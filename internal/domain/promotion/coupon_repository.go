package promotion

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the persistence interface for coupons
type Repository interface {
	// FindByID retrieves a coupon by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode retrieves a coupon by its normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindAll retrieves coupons matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Coupon, error)

	// Count returns the number of coupons matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create persists a new coupon
	Create(ctx context.Context, c *Coupon) error

	// Save persists changes to an existing coupon
	Save(ctx context.Context, c *Coupon) error

	// IncrementUsage atomically increments UsedCount, guarded so the cap
	// is never overshot. Returns shared.ErrInvalidState when the coupon's
	// usage limit has been reached by a concurrent redemption.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// SoftDelete marks a coupon as deleted and returns the deleted record
	SoftDelete(ctx context.Context, id uuid.UUID) (*Coupon, error)
}
