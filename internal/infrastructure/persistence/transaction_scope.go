package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/storefront/backend/internal/application/ledger"
	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
)

// GormTransactionScope implements the ledger and checkout transaction scopes
// over GORM transactions. Every repository handed to the callback shares one
// transaction, so a checkout's stock movements, coupon redemption and order
// insert commit or roll back as a unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// LedgerScope narrows the scope to the ledger engine's repository set.
// Components that only adjust stock use this view of the same scope.
func (s *GormTransactionScope) LedgerScope() appledger.TransactionScope {
	return &gormLedgerScope{db: s.db}
}

type gormLedgerScope struct {
	db *gorm.DB
}

func (s *gormLedgerScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides tx-scoped repositories
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Entries returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) Entries() ledger.Repository {
	return NewGormLedgerRepository(r.tx)
}

// Orders returns the order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

// Coupons returns the coupon repository scoped to the current transaction
func (r *gormTransactionalRepositories) Coupons() promotion.Repository {
	return NewGormCouponRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appledger.TransactionScope = (*gormLedgerScope)(nil)
