package audit

import (
	"strings"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// Action is the kind of mutation an audit entry records
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// IsValid returns true if the action is known
func (a Action) IsValid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// ActionForMethod maps an HTTP method to the audit action it implies.
// Non-mutating methods return an empty action.
func ActionForMethod(method string) Action {
	switch strings.ToUpper(method) {
	case "POST":
		return ActionCreate
	case "PUT", "PATCH":
		return ActionUpdate
	case "DELETE":
		return ActionDelete
	}
	return ""
}

// Change carries the before/after state of a mutated resource. For creates
// Old is nil, for deletes New is nil.
type Change struct {
	Old any `json:"old,omitempty"`
	New any `json:"new,omitempty"`
}

// LogEntry is one recorded mutation. Entries are append-only.
type LogEntry struct {
	shared.BaseEntity
	Resource   string         `gorm:"type:varchar(100);not null;index" json:"resource"`
	ResourceID string         `gorm:"type:varchar(100);not null;index" json:"resourceId"`
	Action     Action         `gorm:"type:varchar(20);not null" json:"action"`
	Actor      identity.Actor `gorm:"embedded;embeddedPrefix:actor_" json:"actor"`
	Change     Change         `gorm:"serializer:json" json:"change"`
	Method     string         `gorm:"type:varchar(10)" json:"method"`
	Path       string         `gorm:"type:varchar(500)" json:"path"`
	StatusCode int            `json:"statusCode"`
}

// TableName returns the table name for GORM
func (LogEntry) TableName() string {
	return "audit_logs"
}

// NewLogEntry creates an audit entry. Resource, resource ID, a valid action
// and a non-anonymous-or-resolved actor are all required; recording is
// skipped upstream when any of them cannot be determined.
func NewLogEntry(resource, resourceID string, action Action, actor identity.Actor, change Change) (*LogEntry, error) {
	resource = strings.TrimSpace(resource)
	resourceID = strings.TrimSpace(resourceID)
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT_RESOURCE", "Audit resource cannot be empty")
	}
	if resourceID == "" {
		return nil, shared.NewDomainError("INVALID_AUDIT_RESOURCE_ID", "Audit resource ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_AUDIT_ACTION", "Unknown audit action")
	}

	return &LogEntry{
		BaseEntity: shared.NewBaseEntity(),
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
		Actor:      actor,
		Change:     change,
	}, nil
}
