package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CreateCouponRequest represents a request to create a coupon
type CreateCouponRequest struct {
	Code           string          `json:"code" binding:"required,min=1,max=50"`
	Description    string          `json:"description" binding:"max=255"`
	Type           string          `json:"type" binding:"required,oneof=PERCENT AMOUNT"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	UsageLimit     int64           `json:"usageLimit" binding:"min=0"`
	StartsAt       *time.Time      `json:"startsAt"`
	ExpiresAt      *time.Time      `json:"expiresAt"`
}

// UpdateCouponRequest represents a request to update a coupon
type UpdateCouponRequest struct {
	Description    string          `json:"description" binding:"max=255"`
	Value          decimal.Decimal `json:"value" binding:"required"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	UsageLimit     int64           `json:"usageLimit" binding:"min=0"`
	StartsAt       *time.Time      `json:"startsAt"`
	ExpiresAt      *time.Time      `json:"expiresAt"`
	IsActive       bool            `json:"isActive"`
}

// ValidateCouponRequest represents a pre-checkout coupon check
type ValidateCouponRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=50"`
	OrderAmount decimal.Decimal `json:"orderAmount" binding:"required"`
}

// ValidationResponse is the outcome of a pre-checkout coupon check
type ValidationResponse struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Reason   string          `json:"reason,omitempty"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID             uuid.UUID       `json:"_id"`
	Code           string          `json:"code"`
	Description    string          `json:"description,omitempty"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	UsageLimit     int64           `json:"usageLimit"`
	UsedCount      int64           `json:"usedCount"`
	StartsAt       *time.Time      `json:"startsAt,omitempty"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func toCouponResponse(c *promotion.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		Description:    c.Description,
		Type:           string(c.Type),
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		StartsAt:       c.StartsAt,
		ExpiresAt:      c.ExpiresAt,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toCouponResponses(coupons []*promotion.Coupon) []CouponResponse {
	out := make([]CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, *toCouponResponse(c))
	}
	return out
}
