package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// RecordInput is one mutation to capture in the audit trail
type RecordInput struct {
	Resource   string
	ResourceID string
	Action     audit.Action
	Actor      identity.Actor
	Change     audit.Change
	Method     string
	Path       string
	StatusCode int
}

// AuditService appends to and queries the audit trail. Recording is
// best-effort: a failure is logged and never propagated to the request that
// triggered it.
type AuditService struct {
	logs   audit.Repository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(logs audit.Repository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{logs: logs, logger: logger}
}

// Record appends one audit entry. When the resource, resource ID or actor
// could not be resolved the entry is skipped, not half-written.
func (s *AuditService) Record(ctx context.Context, in RecordInput) {
	if in.Resource == "" || in.ResourceID == "" || in.Actor.UserID == "" {
		s.logger.Debug("audit entry skipped",
			zap.String("resource", in.Resource),
			zap.String("resource_id", in.ResourceID),
			zap.String("path", in.Path))
		return
	}

	entry, err := audit.NewLogEntry(in.Resource, in.ResourceID, in.Action, in.Actor, in.Change)
	if err != nil {
		s.logger.Warn("audit entry rejected",
			zap.String("resource", in.Resource),
			zap.String("resource_id", in.ResourceID),
			zap.Error(err))
		return
	}
	entry.Method = in.Method
	entry.Path = in.Path
	entry.StatusCode = in.StatusCode

	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Error("audit entry write failed",
			zap.String("resource", in.Resource),
			zap.String("resource_id", in.ResourceID),
			zap.Error(err))
	}
}

// List retrieves audit entries with the total count, newest first
func (s *AuditService) List(ctx context.Context, filter shared.Filter) ([]*audit.LogEntry, int64, error) {
	items, err := s.logs.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.logs.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByResource retrieves the audit history of one resource instance
func (s *AuditService) ListByResource(ctx context.Context, resource, resourceID string, filter shared.Filter) ([]*audit.LogEntry, error) {
	return s.logs.FindByResource(ctx, resource, resourceID, filter)
}
