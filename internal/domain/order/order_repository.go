package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the persistence interface for orders
type Repository interface {
	// FindByID retrieves an order with its items and history
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll retrieves orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)

	// FindByUser retrieves a user's orders, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, error)

	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create persists a new order with its items and history
	Create(ctx context.Context, o *Order) error

	// Save persists changes to an existing order, including any
	// newly appended history entries
	Save(ctx context.Context, o *Order) error
}
