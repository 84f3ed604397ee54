package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCouponRepository implements promotion.Repository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	var coupon promotion.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its normalized code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	var coupon promotion.Coupon
	if err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", promotion.NormalizeCode(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll finds coupons matching the filter
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*promotion.Coupon, error) {
	var coupons []*promotion.Coupon
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&promotion.Coupon{}), filter), filter)
	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// Count counts coupons matching the filter
func (r *GormCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&promotion.Coupon{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new coupon
func (r *GormCouponRepository) Create(ctx context.Context, c *promotion.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save persists changes to an existing coupon
func (r *GormCouponRepository) Save(ctx context.Context, c *promotion.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// IncrementUsage atomically increments the used counter. The update is
// conditional on the cap not being reached yet, so two concurrent checkouts
// can never push UsedCount past UsageLimit. Zero rows affected means the cap
// was hit by someone else (or the coupon is gone).
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&promotion.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return shared.ErrInvalidState
	}
	return nil
}

// SoftDelete marks a coupon as deleted and returns the deleted record
func (r *GormCouponRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	coupon, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *GormCouponRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR description LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

var _ promotion.Repository = (*GormCouponRepository)(nil)
