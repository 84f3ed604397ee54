package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormLedgerRepository implements ledger.Repository using GORM.
// The table is append-only; no update or delete statements exist here.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append persists a new ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByProduct finds a product's entries, newest first by default
func (r *GormLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	query := r.db.WithContext(ctx).Model(&ledger.Entry{}).Where("product_id = ?", productID)
	if entryType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", entryType)
	}
	if err := applyPagination(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByOrder finds the entries linked to an order in insertion order
func (r *GormLedgerRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByProduct counts a product's entries
func (r *GormLedgerRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumChangesByProduct folds a product's entries into the stock they imply
func (r *GormLedgerRepository) SumChangesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(change), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

var _ ledger.Repository = (*GormLedgerRepository)(nil)
