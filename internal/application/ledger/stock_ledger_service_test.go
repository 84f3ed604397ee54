package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) AdjustCounters(ctx context.Context, id uuid.UUID, stockDelta, soldDelta int64) (*catalog.Product, error) {
	args := m.Called(ctx, id, stockDelta, soldDelta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

// MockLedgerRepository is a mock implementation of ledger.Repository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ledger.Entry, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ledger.Entry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumChangesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// Test helpers
var testProductID = uuid.New()

func testActor() identity.Actor {
	return identity.Actor{UserID: uuid.New().String(), Email: "admin@example.com", Role: "admin"}
}

func createTestProduct(t *testing.T, stock int64) *catalog.Product {
	p, err := catalog.NewProduct("Test Product", "SKU-001", "", decimal.NewFromInt(150000), decimal.Zero)
	require.NoError(t, err)
	p.BaseEntity = shared.NewBaseEntityWithID(testProductID)
	p.Stock = stock
	return p
}

// ============================================
// Apply Tests
// ============================================

func TestApply(t *testing.T) {
	t.Run("import adjusts stock and appends entry", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(50), int64(0)).Return(createTestProduct(t, 50), nil)
		entries.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil)

		entry, err := Apply(ctx, scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeImport,
			Change:    50,
			Actor:     testActor(),
			Reason:    "restock",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(50), entry.Change)
		assert.Equal(t, int64(50), entry.CurrentStock)
		assert.NotEmpty(t, entry.ReferenceCode)
		products.AssertExpectations(t)
		entries.AssertExpectations(t)
	})

	t.Run("sale increments the sold counter", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(-3), int64(3)).Return(createTestProduct(t, 47), nil)
		entries.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil)

		entry, err := Apply(ctx, scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeSale,
			Change:    -3,
			Actor:     testActor(),
		})

		require.NoError(t, err)
		assert.Equal(t, int64(47), entry.CurrentStock)
		products.AssertExpectations(t)
	})

	t.Run("return decrements the sold counter", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(3), int64(-3)).Return(createTestProduct(t, 50), nil)
		entries.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil)

		_, err := Apply(ctx, scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeReturn,
			Change:    3,
			Actor:     testActor(),
		})

		require.NoError(t, err)
		products.AssertExpectations(t)
	})

	t.Run("invalid sign rejected before any write", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)

		_, err := Apply(context.Background(), scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeSale,
			Change:    3,
			Actor:     testActor(),
		})

		assert.Error(t, err)
		products.AssertNotCalled(t, "AdjustCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock surfaces available quantity", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(-10), int64(10)).Return(nil, shared.ErrInsufficientStock)
		products.On("FindByIDUnscoped", ctx, testProductID).Return(createTestProduct(t, 4), nil)

		_, err := Apply(ctx, scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeSale,
			Change:    -10,
			Actor:     testActor(),
		})

		var stockErr *shared.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, int64(4), stockErr.Available)
		assert.Equal(t, int64(10), stockErr.Requested)
		entries.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("unknown product propagates not found", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(5), int64(0)).Return(nil, shared.ErrNotFound)

		_, err := Apply(ctx, scope, ApplyRequest{
			ProductID: testProductID,
			Type:      ledger.EntryTypeImport,
			Change:    5,
			Actor:     testActor(),
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("caller-supplied reference code survives", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(20), int64(0)).Return(createTestProduct(t, 70), nil)
		entries.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil)

		entry, err := Apply(ctx, scope, ApplyRequest{
			ProductID:     testProductID,
			Type:          ledger.EntryTypeImport,
			Change:        20,
			Actor:         testActor(),
			ReferenceCode: "PO-7",
		})

		require.NoError(t, err)
		assert.Equal(t, "PO-7", entry.ReferenceCode)
	})
}

// ============================================
// AdjustStock Tests
// ============================================

func TestStockLedgerService_AdjustStock(t *testing.T) {
	t.Run("manual adjustment succeeds", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		service := NewStockLedgerService(scope, entries, products)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(-2), int64(0)).Return(createTestProduct(t, 48), nil)
		entries.On("Append", ctx, mock.AnythingOfType("*ledger.Entry")).Return(nil)

		result, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: testProductID,
			Type:      "DAMAGED",
			Change:    -2,
			Reason:    "water damage",
		}, testActor())

		require.NoError(t, err)
		assert.Equal(t, "DAMAGED", result.Type)
		assert.Equal(t, int64(48), result.CurrentStock)
		assert.Equal(t, "water damage", result.Reason)
	})

	t.Run("failed adjustment returns error", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		scope := NewNoOpTransactionScope(products, entries)
		service := NewStockLedgerService(scope, entries, products)
		ctx := context.Background()

		products.On("AdjustCounters", ctx, testProductID, int64(-100), int64(100)).Return(nil, shared.ErrInsufficientStock)
		products.On("FindByIDUnscoped", ctx, testProductID).Return(createTestProduct(t, 10), nil)

		_, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: testProductID,
			Type:      "SALE",
			Change:    -100,
		}, testActor())

		assert.Error(t, err)
	})
}

// ============================================
// AuditProduct Tests
// ============================================

func TestStockLedgerService_AuditProduct(t *testing.T) {
	t.Run("consistent when replay matches counter", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(products, entries), entries, products)
		ctx := context.Background()

		products.On("FindByIDUnscoped", ctx, testProductID).Return(createTestProduct(t, 70), nil)
		entries.On("SumChangesByProduct", ctx, testProductID).Return(int64(70), nil)
		entries.On("CountByProduct", ctx, testProductID).Return(int64(5), nil)

		result, err := service.AuditProduct(ctx, testProductID)

		require.NoError(t, err)
		assert.True(t, result.Consistent)
		assert.Equal(t, int64(70), result.LedgerStock)
		assert.Equal(t, int64(70), result.CounterStock)
		assert.Equal(t, int64(5), result.Entries)
	})

	t.Run("inconsistent when counter drifts", func(t *testing.T) {
		products := new(MockProductRepository)
		entries := new(MockLedgerRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(products, entries), entries, products)
		ctx := context.Background()

		products.On("FindByIDUnscoped", ctx, testProductID).Return(createTestProduct(t, 69), nil)
		entries.On("SumChangesByProduct", ctx, testProductID).Return(int64(70), nil)
		entries.On("CountByProduct", ctx, testProductID).Return(int64(5), nil)

		result, err := service.AuditProduct(ctx, testProductID)

		require.NoError(t, err)
		assert.False(t, result.Consistent)
	})
}
