package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// RoleService handles role administration and permission resolution
type RoleService struct {
	roles identity.RoleRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roles identity.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// Create creates a new role. Names are unique among live roles.
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if existing, err := s.roles.FindByName(ctx, name); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	role, err := identity.NewRole(name, toPermissions(req.Permissions))
	if err != nil {
		return nil, err
	}
	role.Description = strings.TrimSpace(req.Description)

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// Update modifies a role's name, description and permission matrix
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := role.Rename(req.Name); err != nil {
		return nil, err
	}
	role.Description = strings.TrimSpace(req.Description)
	if err := role.SetPermissions(toPermissions(req.Permissions)); err != nil {
		return nil, err
	}

	if err := s.roles.Save(ctx, role); err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(role), nil
}

// List retrieves roles with the total count
func (s *RoleService) List(ctx context.Context, filter shared.Filter) ([]RoleResponse, int64, error) {
	items, err := s.roles.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roles.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toRoleResponses(items), total, nil
}

// Delete soft-deletes a role and returns the deleted record
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	deleted, err := s.roles.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleResponse(deleted), nil
}

// Authorize checks that the named role covers every requirement. An unknown
// role is treated as having no grants.
func (s *RoleService) Authorize(ctx context.Context, roleName string, requirements []identity.ResourcePermission) error {
	if len(requirements) == 0 {
		return nil
	}
	role, err := s.roles.FindByName(ctx, strings.TrimSpace(roleName))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrForbidden
		}
		return err
	}
	return identity.CheckPermission(role.Permissions, requirements)
}
