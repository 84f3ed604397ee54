package identity

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// ResourcePermission grants a set of actions on one resource.
// It is a value object; actions within one entry form a set (no duplicates).
type ResourcePermission struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// NewResourcePermission creates a ResourcePermission, normalizing and
// deduplicating the action list.
func NewResourcePermission(resource string, actions []string) (*ResourcePermission, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_RESOURCE", "Permission resource cannot be empty")
	}
	if len(actions) == 0 {
		return nil, shared.NewDomainError("INVALID_ACTIONS", "Permission must grant at least one action")
	}

	seen := make(map[string]bool, len(actions))
	unique := make([]string, 0, len(actions))
	for _, a := range actions {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			return nil, shared.NewDomainError("INVALID_ACTIONS", "Permission action cannot be empty")
		}
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}

	return &ResourcePermission{Resource: resource, Actions: unique}, nil
}

// Allows returns true if this entry covers every requested action
func (p ResourcePermission) Allows(actions []string) bool {
	granted := make(map[string]bool, len(p.Actions))
	for _, a := range p.Actions {
		granted[a] = true
	}
	for _, a := range actions {
		if !granted[strings.ToLower(strings.TrimSpace(a))] {
			return false
		}
	}
	return true
}

// Role is a named permission set referenced by users.
// Role names are unique among non-deleted roles.
type Role struct {
	shared.SoftDeleteEntity
	Name        string               `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string               `gorm:"type:varchar(255)" json:"description"`
	Permissions []ResourcePermission `gorm:"serializer:json" json:"permissions"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new role with a validated, deduplicated permission matrix
func NewRole(name string, permissions []ResourcePermission) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}

	role := &Role{
		SoftDeleteEntity: shared.SoftDeleteEntity{BaseEntity: shared.NewBaseEntity()},
		Name:             name,
		Permissions:      make([]ResourcePermission, 0, len(permissions)),
	}
	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}
	return role, nil
}

// SetPermissions replaces the role's permission matrix. Entries are normalized
// and merged so each resource appears once with a deduplicated action set.
func (r *Role) SetPermissions(permissions []ResourcePermission) error {
	byResource := make(map[string]int)
	merged := make([]ResourcePermission, 0, len(permissions))

	for _, p := range permissions {
		normalized, err := NewResourcePermission(p.Resource, p.Actions)
		if err != nil {
			return err
		}
		if idx, ok := byResource[normalized.Resource]; ok {
			combined, err := NewResourcePermission(normalized.Resource, append(merged[idx].Actions, normalized.Actions...))
			if err != nil {
				return err
			}
			merged[idx] = *combined
			continue
		}
		byResource[normalized.Resource] = len(merged)
		merged = append(merged, *normalized)
	}

	r.Permissions = merged
	r.UpdatedAt = time.Now()
	return nil
}

// Rename updates the role name
func (r *Role) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	r.Name = name
	r.UpdatedAt = time.Now()
	return nil
}

// PermissionFor returns the role's entry for a resource, or nil if absent
func (r *Role) PermissionFor(resource string) *ResourcePermission {
	resource = strings.ToLower(strings.TrimSpace(resource))
	for i := range r.Permissions {
		if r.Permissions[i].Resource == resource {
			return &r.Permissions[i]
		}
	}
	return nil
}

// CheckPermission verifies that the granted matrix satisfies every declared
// requirement. For each requirement the matching resource entry must exist and
// its action set must be a superset of the required actions. The check never
// special-cases individual resources. An empty requirement list always passes.
func CheckPermission(granted []ResourcePermission, requirements []ResourcePermission) error {
	for _, req := range requirements {
		resource := strings.ToLower(strings.TrimSpace(req.Resource))
		var match *ResourcePermission
		for i := range granted {
			if granted[i].Resource == resource {
				match = &granted[i]
				break
			}
		}
		if match == nil || !match.Allows(req.Actions) {
			return shared.ErrForbidden
		}
	}
	return nil
}
