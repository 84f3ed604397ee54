package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// RoleRepository defines persistence operations for roles
type RoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	// FindByName finds a non-deleted role by its exact name
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Role, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, role *Role) error
	Save(ctx context.Context, role *Role) error
	// SoftDelete marks the role deleted and returns the record as it was
	SoftDelete(ctx context.Context, id uuid.UUID) (*Role, error)
}
