package order

import (
	"context"

	applicationledger "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
)

// TransactionScope provides transactional access to every repository a
// checkout touches. Stock adjustments, ledger appends, coupon redemption and
// the order insert commit or roll back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to the
// current transaction. It extends the ledger scope so checkout can hand
// itself to the ledger engine for per-item stock movements.
type TransactionalRepositories interface {
	applicationledger.TransactionalRepositories
	// Orders returns the order repository scoped to the transaction
	Orders() order.Repository
	// Coupons returns the coupon repository scoped to the transaction
	Coupons() promotion.Repository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where repositories are in-memory mocks.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	entries  ledger.Repository
	orders   order.Repository
	coupons  promotion.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	entries ledger.Repository,
	orders order.Repository,
	coupons promotion.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products: products,
		entries:  entries,
		orders:   orders,
		coupons:  coupons,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Entries returns the ledger repository
func (s *NoOpTransactionScope) Entries() ledger.Repository {
	return s.entries
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orders
}

// Coupons returns the coupon repository
func (s *NoOpTransactionScope) Coupons() promotion.Repository {
	return s.coupons
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
