package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// PermissionInput is one resource grant in a role request
type PermissionInput struct {
	Resource string   `json:"resource" binding:"required,min=1,max=100"`
	Actions  []string `json:"actions" binding:"required,min=1,dive,min=1"`
}

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	Description string            `json:"description" binding:"max=255"`
	Permissions []PermissionInput `json:"permissions" binding:"dive"`
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        string            `json:"name" binding:"required,min=1,max=100"`
	Description string            `json:"description" binding:"max=255"`
	Permissions []PermissionInput `json:"permissions" binding:"dive"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID                     `json:"_id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Permissions []identity.ResourcePermission `json:"permissions"`
	CreatedAt   time.Time                     `json:"createdAt"`
	UpdatedAt   time.Time                     `json:"updatedAt"`
}

func toRoleResponse(r *identity.Role) *RoleResponse {
	return &RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRoleResponses(roles []identity.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, *toRoleResponse(&roles[i]))
	}
	return out
}

func toPermissions(inputs []PermissionInput) []identity.ResourcePermission {
	out := make([]identity.ResourcePermission, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, identity.ResourcePermission{Resource: in.Resource, Actions: in.Actions})
	}
	return out
}
