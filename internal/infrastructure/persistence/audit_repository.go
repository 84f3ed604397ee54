package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormAuditRepository implements audit.Repository using GORM.
// Like the stock ledger, the table is append-only.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append persists a new audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByResource finds one resource instance's entries, newest first
func (r *GormAuditRepository) FindByResource(ctx context.Context, resource, resourceID string, filter shared.Filter) ([]*audit.LogEntry, error) {
	var entries []*audit.LogEntry
	query := r.db.WithContext(ctx).Model(&audit.LogEntry{}).
		Where("resource = ? AND resource_id = ?", resource, resourceID)
	if err := applyPagination(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds entries matching the filter, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.LogEntry, error) {
	var entries []*audit.LogEntry
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&audit.LogEntry{}), filter), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&audit.LogEntry{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "resource":
			query = query.Where("resource = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		case "actor_user_id":
			query = query.Where("actor_user_id = ?", value)
		}
	}
	return query
}

var _ audit.Repository = (*GormAuditRepository)(nil)
