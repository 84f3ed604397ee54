package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// Test helpers
func testActor() identity.Actor {
	return identity.Actor{UserID: uuid.New().String(), Email: "admin@example.com", Role: "admin"}
}

func createTestOrder(t *testing.T) *Order {
	userID := uuid.New()
	o, err := NewOrder(uuid.New(), &userID, CustomerInfo{
		Name:    "Test Customer",
		Phone:   "0900000000",
		Address: "1 Test Street",
	}, "COD", testActor())
	require.NoError(t, err)
	return o
}

func createTestProduct(t *testing.T, price int64) *catalog.Product {
	p, err := catalog.NewProduct("Test Product", "SKU-001", "", decimal.NewFromInt(price), decimal.Zero)
	require.NoError(t, err)
	p.Stock = 100
	return p
}

// ============================================
// Status Tests
// ============================================

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusShipping, true},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipping, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusShipping, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusShipping, StatusCompleted, true},
		{StatusShipping, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusShipping.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	t.Run("creates pending unpaid order with opening history", func(t *testing.T) {
		o := createTestOrder(t)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
		assert.True(t, o.SubTotal.IsZero())
		assert.True(t, o.TotalAmount.IsZero())
		require.Len(t, o.History, 1)
		assert.Equal(t, string(StatusPending), o.History[0].Status)
	})

	t.Run("nil user means guest order", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), nil, CustomerInfo{Name: "Guest"}, "COD", identity.Anonymous())
		require.NoError(t, err)
		assert.True(t, o.IsGuest())
	})

	t.Run("rejects empty order ID", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, nil, CustomerInfo{Name: "Guest"}, "COD", identity.Anonymous())
		assert.Error(t, err)
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil, CustomerInfo{Name: "  "}, "COD", identity.Anonymous())
		assert.Error(t, err)
	})

	t.Run("rejects empty payment method", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil, CustomerInfo{Name: "Guest"}, "", identity.Anonymous())
		assert.Error(t, err)
	})
}

// ============================================
// Item snapshot Tests
// ============================================

func TestOrder_AddItemSnapshot(t *testing.T) {
	t.Run("snapshots product fields and accumulates subtotal", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 25)

		require.NoError(t, o.AddItemSnapshot(p, 1))

		require.Len(t, o.Items, 1)
		assert.Equal(t, p.ID, o.Items[0].ProductID)
		assert.Equal(t, p.Name, o.Items[0].Name)
		assert.Equal(t, p.SKU, o.Items[0].SKU)
		assert.True(t, o.Items[0].Price.Equal(p.Price))
		assert.True(t, o.SubTotal.Equal(decimal.NewFromInt(25)))
	})

	t.Run("subtotal multiplies price by quantity", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 100)

		require.NoError(t, o.AddItemSnapshot(p, 3))

		assert.True(t, o.SubTotal.Equal(decimal.NewFromInt(300)))
		assert.True(t, o.Items[0].Subtotal().Equal(decimal.NewFromInt(300)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 100)

		assert.Error(t, o.AddItemSnapshot(p, 0))
		assert.Error(t, o.AddItemSnapshot(p, -1))
	})

	t.Run("later product edits do not alter the snapshot", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 100)
		require.NoError(t, o.AddItemSnapshot(p, 1))

		require.NoError(t, p.Update("Renamed", "SKU-002", "", decimal.NewFromInt(999), decimal.NewFromInt(999), true))

		assert.Equal(t, "Test Product", o.Items[0].Name)
		assert.True(t, o.Items[0].Price.Equal(decimal.NewFromInt(100)))
	})
}

// ============================================
// Totals Tests
// ============================================

func TestOrder_FinalizeTotals(t *testing.T) {
	t.Run("total is subtotal plus shipping minus discount", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 25)
		require.NoError(t, o.AddItemSnapshot(p, 1))

		o.FinalizeTotals(decimal.NewFromInt(30000))

		assert.True(t, o.SubTotal.Equal(decimal.NewFromInt(25)))
		assert.True(t, o.ShippingFee.Equal(decimal.NewFromInt(30000)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(30025)))
	})

	t.Run("discount is clamped to the payable amount", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 100)
		require.NoError(t, o.AddItemSnapshot(p, 1))
		o.ApplyCoupon("BIG", "AMOUNT", decimal.NewFromInt(500), decimal.NewFromInt(500))

		o.FinalizeTotals(decimal.NewFromInt(50))

		assert.True(t, o.DiscountAmount.Equal(decimal.NewFromInt(150)))
		assert.True(t, o.TotalAmount.IsZero())
	})

	t.Run("negative shipping fee is treated as zero", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 100)
		require.NoError(t, o.AddItemSnapshot(p, 1))

		o.FinalizeTotals(decimal.NewFromInt(-10))

		assert.True(t, o.ShippingFee.IsZero())
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("multiple coupons accumulate into the discount", func(t *testing.T) {
		o := createTestOrder(t)
		p := createTestProduct(t, 1000)
		require.NoError(t, o.AddItemSnapshot(p, 1))
		o.ApplyCoupon("A", "AMOUNT", decimal.NewFromInt(100), decimal.NewFromInt(100))
		o.ApplyCoupon("B", "PERCENT", decimal.NewFromInt(10), decimal.NewFromInt(100))

		o.FinalizeTotals(decimal.Zero)

		require.Len(t, o.AppliedCoupons, 2)
		assert.True(t, o.DiscountAmount.Equal(decimal.NewFromInt(200)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(800)))
	})
}

// ============================================
// Transition Tests
// ============================================

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("valid transition appends history", func(t *testing.T) {
		o := createTestOrder(t)

		require.NoError(t, o.TransitionTo(StatusConfirmed, testActor(), "confirmed by admin"))

		assert.Equal(t, StatusConfirmed, o.Status)
		require.Len(t, o.History, 2)
		assert.Equal(t, string(StatusConfirmed), o.History[1].Status)
		assert.Equal(t, "confirmed by admin", o.History[1].Note)
	})

	t.Run("invalid transition returns typed error", func(t *testing.T) {
		o := createTestOrder(t)

		err := o.TransitionTo(StatusCompleted, testActor(), "")

		var transErr *shared.InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, "PENDING", transErr.From)
		assert.Equal(t, "COMPLETED", transErr.Target)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := createTestOrder(t)
		assert.Error(t, o.TransitionTo(Status("BOGUS"), testActor(), ""))
	})

	t.Run("full happy path", func(t *testing.T) {
		o := createTestOrder(t)
		actor := testActor()

		require.NoError(t, o.TransitionTo(StatusConfirmed, actor, ""))
		require.NoError(t, o.TransitionTo(StatusShipping, actor, ""))
		require.NoError(t, o.TransitionTo(StatusCompleted, actor, ""))

		assert.Equal(t, StatusCompleted, o.Status)
		assert.Len(t, o.History, 4)
	})
}

// ============================================
// Cancellation Tests
// ============================================

func TestOrder_CancelByCustomer(t *testing.T) {
	t.Run("allowed from pending", func(t *testing.T) {
		o := createTestOrder(t)

		require.NoError(t, o.CancelByCustomer(testActor(), "changed my mind"))

		assert.Equal(t, StatusCancelled, o.Status)
		assert.Equal(t, "changed my mind", o.History[len(o.History)-1].Note)
	})

	t.Run("allowed from confirmed", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(StatusConfirmed, testActor(), ""))

		assert.NoError(t, o.CancelByCustomer(testActor(), ""))
	})

	t.Run("denied once shipping", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(StatusConfirmed, testActor(), ""))
		require.NoError(t, o.TransitionTo(StatusShipping, testActor(), ""))

		err := o.CancelByCustomer(testActor(), "")

		var transErr *shared.InvalidTransitionError
		require.ErrorAs(t, err, &transErr)
		assert.Equal(t, StatusShipping, o.Status)
	})
}

func TestOrder_ForceCancel(t *testing.T) {
	t.Run("allowed from shipping", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(StatusConfirmed, testActor(), ""))
		require.NoError(t, o.TransitionTo(StatusShipping, testActor(), ""))

		require.NoError(t, o.ForceCancel(testActor(), "lost shipment"))

		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("denied from completed", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.TransitionTo(StatusConfirmed, testActor(), ""))
		require.NoError(t, o.TransitionTo(StatusShipping, testActor(), ""))
		require.NoError(t, o.TransitionTo(StatusCompleted, testActor(), ""))

		assert.Error(t, o.ForceCancel(testActor(), ""))
	})

	t.Run("denied when already cancelled", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.CancelByCustomer(testActor(), ""))

		assert.Error(t, o.ForceCancel(testActor(), ""))
	})
}

// ============================================
// Payment status Tests
// ============================================

func TestOrder_SetPaymentStatus(t *testing.T) {
	t.Run("changes payment axis without touching status", func(t *testing.T) {
		o := createTestOrder(t)

		require.NoError(t, o.SetPaymentStatus(PaymentStatusPaid, testActor(), "paid via transfer"))

		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, "paid via transfer", o.History[len(o.History)-1].Note)
	})

	t.Run("rejects unknown payment status", func(t *testing.T) {
		o := createTestOrder(t)
		assert.Error(t, o.SetPaymentStatus(PaymentStatus("BOGUS"), testActor(), ""))
	})
}
