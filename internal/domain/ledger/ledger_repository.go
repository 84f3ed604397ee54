package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository is the append-only store for stock ledger entries.
// Entries are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Entry, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Entry, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// SumChangesByProduct returns the sum of all entry changes for a product,
	// used to audit the ledger-derived stock against the product counter.
	SumChangesByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
