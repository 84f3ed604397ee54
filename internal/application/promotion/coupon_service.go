package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponService handles coupon administration and pre-checkout validation
type CouponService struct {
	coupons promotion.Repository
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons promotion.Repository) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create creates a new coupon. Codes are unique; a duplicate returns
// shared.ErrAlreadyExists.
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	code := promotion.NormalizeCode(req.Code)
	if existing, err := s.coupons.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	coupon, err := promotion.NewCoupon(code, promotion.DiscountType(req.Type), req.Value)
	if err != nil {
		return nil, err
	}
	if err := coupon.Update(req.Description, req.Value, req.MinOrderAmount, req.MaxDiscount, req.UsageLimit, req.StartsAt, req.ExpiresAt, true); err != nil {
		return nil, err
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return toCouponResponse(coupon), nil
}

// Update modifies an existing coupon
func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := coupon.Update(req.Description, req.Value, req.MinOrderAmount, req.MaxDiscount, req.UsageLimit, req.StartsAt, req.ExpiresAt, req.IsActive); err != nil {
		return nil, err
	}
	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return toCouponResponse(coupon), nil
}

// GetByID retrieves a coupon by ID
func (s *CouponService) GetByID(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCouponResponse(coupon), nil
}

// List retrieves coupons with the total count
func (s *CouponService) List(ctx context.Context, filter shared.Filter) ([]CouponResponse, int64, error) {
	items, err := s.coupons.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coupons.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toCouponResponses(items), total, nil
}

// Delete soft-deletes a coupon and returns the deleted record
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	deleted, err := s.coupons.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCouponResponse(deleted), nil
}

// Validate checks a coupon against an order amount without redeeming it.
// Rejections come back as a result with Valid=false, not as an error, so the
// storefront can show the reason inline.
func (s *CouponService) Validate(ctx context.Context, req ValidateCouponRequest) (*ValidationResponse, error) {
	code := promotion.NormalizeCode(req.Code)
	resp := &ValidationResponse{Code: code, Discount: decimal.Zero}

	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			resp.Reason = promotion.ReasonNotFound
			return resp, nil
		}
		return nil, err
	}

	if err := coupon.ValidateForUse(req.OrderAmount, time.Now()); err != nil {
		var couponErr *shared.CouponError
		if errors.As(err, &couponErr) {
			resp.Reason = couponErr.Reason
			return resp, nil
		}
		return nil, err
	}

	resp.Valid = true
	resp.Discount = coupon.DiscountFor(req.OrderAmount)
	return resp, nil
}
