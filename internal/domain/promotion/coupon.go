package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// DiscountType determines how a coupon's value is interpreted
type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeAmount  DiscountType = "AMOUNT"
)

// IsValid returns true if the discount type is known
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercent || t == DiscountTypeAmount
}

// Rejection reasons surfaced by ValidateForUse
const (
	ReasonNotFound      = "coupon not found"
	ReasonInactive      = "coupon is not active"
	ReasonNotStarted    = "coupon is not yet valid"
	ReasonExpired       = "coupon has expired"
	ReasonUsageExceeded = "coupon usage limit reached"
	ReasonMinOrder      = "order amount below coupon minimum"
)

// Coupon is a discount code with a validity window, an optional usage cap
// and an optional minimum order amount.
type Coupon struct {
	shared.SoftDeleteEntity
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description    string          `gorm:"type:varchar(255)" json:"description"`
	Type           DiscountType    `gorm:"type:varchar(20);not null" json:"type"`
	Value          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"value"`
	MinOrderAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"minOrderAmount"`
	MaxDiscount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"maxDiscount"`
	UsageLimit     int64           `gorm:"not null" json:"usageLimit"` // 0 = unlimited
	UsedCount      int64           `gorm:"not null" json:"usedCount"`
	StartsAt       *time.Time      `json:"startsAt,omitempty"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty"`
	IsActive       bool            `gorm:"not null;default:true" json:"isActive"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates a coupon. Codes are stored uppercase so lookup is
// case-insensitive.
func NewCoupon(code string, couponType DiscountType, value decimal.Decimal) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_COUPON_CODE", "Coupon code cannot be empty")
	}
	if !couponType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUPON_TYPE", "Coupon type must be PERCENT or AMOUNT")
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "Coupon value must be positive")
	}
	if couponType == DiscountTypePercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COUPON_VALUE", "Percent coupon value cannot exceed 100")
	}

	return &Coupon{
		SoftDeleteEntity: shared.SoftDeleteEntity{BaseEntity: shared.NewBaseEntity()},
		Code:             code,
		Type:             couponType,
		Value:            value,
		MinOrderAmount:   decimal.Zero,
		MaxDiscount:      decimal.Zero,
		IsActive:         true,
	}, nil
}

// NormalizeCode canonicalizes a coupon code for storage and lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateForUse checks every redemption precondition against the given
// order amount at the given time. It returns a CouponError naming the first
// failed condition, or nil when the coupon is redeemable.
func (c *Coupon) ValidateForUse(orderAmount decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return shared.NewCouponError(c.Code, ReasonInactive)
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return shared.NewCouponError(c.Code, ReasonNotStarted)
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return shared.NewCouponError(c.Code, ReasonExpired)
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return shared.NewCouponError(c.Code, ReasonUsageExceeded)
	}
	if c.MinOrderAmount.IsPositive() && orderAmount.LessThan(c.MinOrderAmount) {
		return shared.NewCouponError(c.Code, ReasonMinOrder)
	}
	return nil
}

// DiscountFor computes the discount this coupon grants on the given amount.
// PERCENT coupons honor MaxDiscount when set; the result is always clamped
// to the order amount.
func (c *Coupon) DiscountFor(orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.Type {
	case DiscountTypePercent:
		discount = orderAmount.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
			discount = c.MaxDiscount
		}
	case DiscountTypeAmount:
		discount = c.Value
	default:
		return decimal.Zero
	}

	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// Update modifies the coupon's editable fields. Code and usage counters are
// not editable here.
func (c *Coupon) Update(description string, value, minOrderAmount, maxDiscount decimal.Decimal, usageLimit int64, startsAt, expiresAt *time.Time, isActive bool) error {
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Coupon value must be positive")
	}
	if c.Type == DiscountTypePercent && value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COUPON_VALUE", "Percent coupon value cannot exceed 100")
	}
	if usageLimit < 0 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be negative")
	}

	c.Description = strings.TrimSpace(description)
	c.Value = value
	c.MinOrderAmount = minOrderAmount
	c.MaxDiscount = maxDiscount
	c.UsageLimit = usageLimit
	c.StartsAt = startsAt
	c.ExpiresAt = expiresAt
	c.IsActive = isActive
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate turns the coupon off without deleting it
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}
