package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func createTestCoupon(t *testing.T, couponType DiscountType, value int64) *Coupon {
	c, err := NewCoupon("SAVE10", couponType, decimal.NewFromInt(value))
	require.NoError(t, err)
	return c
}

// ============================================
// NewCoupon Tests
// ============================================

func TestNewCoupon(t *testing.T) {
	t.Run("stores the code uppercase", func(t *testing.T) {
		c, err := NewCoupon("  save10 ", DiscountTypePercent, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", c.Code)
		assert.True(t, c.IsActive)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewCoupon("   ", DiscountTypePercent, decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewCoupon("SAVE10", DiscountType("BOGUS"), decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		_, err := NewCoupon("SAVE10", DiscountTypeAmount, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects percent over 100", func(t *testing.T) {
		_, err := NewCoupon("SAVE10", DiscountTypePercent, decimal.NewFromInt(101))
		assert.Error(t, err)
	})
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode(" save10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}

// ============================================
// ValidateForUse Tests
// ============================================

func TestCoupon_ValidateForUse(t *testing.T) {
	now := time.Now()
	orderAmount := decimal.NewFromInt(1000)

	t.Run("valid coupon passes", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		assert.NoError(t, c.ValidateForUse(orderAmount, now))
	})

	t.Run("inactive coupon rejected", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		c.Deactivate()

		err := c.ValidateForUse(orderAmount, now)

		var couponErr *shared.CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, ReasonInactive, couponErr.Reason)
	})

	t.Run("not yet started rejected", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		starts := now.Add(time.Hour)
		c.StartsAt = &starts

		err := c.ValidateForUse(orderAmount, now)

		var couponErr *shared.CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, ReasonNotStarted, couponErr.Reason)
	})

	t.Run("expired rejected", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		expires := now.Add(-time.Hour)
		c.ExpiresAt = &expires

		err := c.ValidateForUse(orderAmount, now)

		var couponErr *shared.CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, ReasonExpired, couponErr.Reason)
	})

	t.Run("usage limit reached rejected", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		c.UsageLimit = 5
		c.UsedCount = 5

		err := c.ValidateForUse(orderAmount, now)

		var couponErr *shared.CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, ReasonUsageExceeded, couponErr.Reason)
	})

	t.Run("zero usage limit means unlimited", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		c.UsageLimit = 0
		c.UsedCount = 1000000

		assert.NoError(t, c.ValidateForUse(orderAmount, now))
	})

	t.Run("order below minimum rejected", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		c.MinOrderAmount = decimal.NewFromInt(2000)

		err := c.ValidateForUse(orderAmount, now)

		var couponErr *shared.CouponError
		require.ErrorAs(t, err, &couponErr)
		assert.Equal(t, ReasonMinOrder, couponErr.Reason)
	})

	t.Run("order at exactly the minimum passes", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		c.MinOrderAmount = decimal.NewFromInt(1000)

		assert.NoError(t, c.ValidateForUse(orderAmount, now))
	})
}

// ============================================
// DiscountFor Tests
// ============================================

func TestCoupon_DiscountFor(t *testing.T) {
	t.Run("percent discount", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)

		discount := c.DiscountFor(decimal.NewFromInt(1000))

		assert.True(t, discount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("percent discount honors max discount", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 50)
		c.MaxDiscount = decimal.NewFromInt(100)

		discount := c.DiscountFor(decimal.NewFromInt(1000))

		assert.True(t, discount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("amount discount", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypeAmount, 150)

		discount := c.DiscountFor(decimal.NewFromInt(1000))

		assert.True(t, discount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("amount discount clamped to the order amount", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypeAmount, 500)

		discount := c.DiscountFor(decimal.NewFromInt(100))

		assert.True(t, discount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("unknown type discounts nothing", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypeAmount, 100)
		c.Type = DiscountType("BOGUS")

		assert.True(t, c.DiscountFor(decimal.NewFromInt(1000)).IsZero())
	})
}

// ============================================
// Update Tests
// ============================================

func TestCoupon_Update(t *testing.T) {
	t.Run("updates editable fields", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		expires := time.Now().Add(24 * time.Hour)

		err := c.Update("spring sale", decimal.NewFromInt(20), decimal.NewFromInt(500), decimal.NewFromInt(200), 100, nil, &expires, true)

		require.NoError(t, err)
		assert.Equal(t, "spring sale", c.Description)
		assert.True(t, c.Value.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, int64(100), c.UsageLimit)
	})

	t.Run("rejects percent over 100", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypePercent, 10)
		err := c.Update("", decimal.NewFromInt(150), decimal.Zero, decimal.Zero, 0, nil, nil, true)
		assert.Error(t, err)
	})

	t.Run("rejects negative usage limit", func(t *testing.T) {
		c := createTestCoupon(t, DiscountTypeAmount, 100)
		err := c.Update("", decimal.NewFromInt(100), decimal.Zero, decimal.Zero, -1, nil, nil, true)
		assert.Error(t, err)
	})
}
