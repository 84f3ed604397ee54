package ledger

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the repositories a stock
// adjustment touches. All repository operations inside Execute share one
// database transaction and commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to the
// current transaction.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the transaction
	Products() catalog.ProductRepository
	// Entries returns the ledger repository scoped to the transaction
	Entries() ledger.Repository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where repositories are in-memory mocks.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	entries  ledger.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(products catalog.ProductRepository, entries ledger.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, entries: entries}
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

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
