package audit

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines the persistence interface for audit logs.
// The log is append-only; there are no update or delete operations.
type Repository interface {
	// Append persists a new audit entry
	Append(ctx context.Context, entry *LogEntry) error

	// FindByResource retrieves entries for one resource instance,
	// newest first
	FindByResource(ctx context.Context, resource, resourceID string, filter shared.Filter) ([]*LogEntry, error)

	// FindAll retrieves entries matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]*LogEntry, error)

	// Count returns the number of entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
