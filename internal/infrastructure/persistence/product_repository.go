package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a non-deleted product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDUnscoped finds a product by ID including soft-deleted records
func (r *GormProductRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Unscoped().First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyPagination(r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save persists changes to an existing product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SoftDelete marks the product deleted and returns the record as it was
func (r *GormProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustCounters atomically applies the stock and sold deltas. The stock
// update is conditional: the row only changes when the resulting stock stays
// non-negative, so concurrent sales can never oversell. The sold counter is
// floored at zero. Zero rows affected means the guard failed (or the product
// is gone); the caller gets the matching error without any write having
// happened.
func (r *GormProductRepository) AdjustCounters(ctx context.Context, id uuid.UUID, stockDelta, soldDelta int64) (*catalog.Product, error) {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Unscoped().
		Where("id = ? AND stock + ? >= 0", id, stockDelta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", stockDelta),
			"sold":       gorm.Expr("CASE WHEN sold + ? < 0 THEN 0 ELSE sold + ? END", soldDelta, soldDelta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByIDUnscoped(ctx, id); err != nil {
			return nil, err
		}
		return nil, shared.ErrInsufficientStock
	}
	return r.FindByIDUnscoped(ctx, id)
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_available":
			query = query.Where("is_available = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("stock > 0")
			}
		}
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
