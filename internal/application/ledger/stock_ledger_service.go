package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/shared"
)

// ApplyRequest is one stock movement to run through the ledger engine
type ApplyRequest struct {
	ProductID     uuid.UUID
	Type          ledger.EntryType
	Change        int64
	Actor         identity.Actor
	Reason        string
	ReferenceCode string
	OrderID       *uuid.UUID
	SupplierID    *uuid.UUID
	Now           time.Time
}

// Apply runs one stock movement against transaction-scoped repositories: it
// validates the change, atomically adjusts the product's stock and sold
// counters, and appends the ledger entry carrying the post-change stock
// snapshot. Checkout and cancellation reuse it inside their own wider
// transactions.
func Apply(ctx context.Context, repos TransactionalRepositories, req ApplyRequest) (*ledger.Entry, error) {
	if err := ledger.ValidateChange(req.Type, req.Change); err != nil {
		return nil, err
	}

	product, err := repos.Products().AdjustCounters(ctx, req.ProductID, req.Change, soldDelta(req.Type, req.Change))
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			if current, ferr := repos.Products().FindByIDUnscoped(ctx, req.ProductID); ferr == nil {
				return nil, shared.NewInsufficientStockError(current.Stock, -req.Change)
			}
		}
		return nil, err
	}

	entry, err := ledger.NewEntry(req.ProductID, req.Type, req.Change, product.Stock, req.Actor, req.Reason)
	if err != nil {
		return nil, err
	}
	if req.OrderID != nil {
		entry.WithOrderID(*req.OrderID)
	}
	if req.SupplierID != nil {
		entry.WithSupplierID(*req.SupplierID)
	}
	entry.WithReferenceCode(req.ReferenceCode)

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	entry.SynthesizeReferenceCode(now)

	if err := repos.Entries().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// soldDelta maps an entry type to its effect on the product's sold counter.
// SALE increases sold by the quantity moved, RETURN decreases it (floored at
// zero by the repository); other movements leave it alone.
func soldDelta(entryType ledger.EntryType, change int64) int64 {
	switch entryType {
	case ledger.EntryTypeSale, ledger.EntryTypeReturn:
		return -change
	}
	return 0
}

// StockLedgerService handles manual stock adjustments and ledger queries
type StockLedgerService struct {
	scope    TransactionScope
	entries  ledger.Repository
	products catalog.ProductRepository
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(scope TransactionScope, entries ledger.Repository, products catalog.ProductRepository) *StockLedgerService {
	return &StockLedgerService{
		scope:    scope,
		entries:  entries,
		products: products,
	}
}

// AdjustStock applies one manual stock movement atomically: counter update
// and ledger append happen in the same transaction, or not at all.
func (s *StockLedgerService) AdjustStock(ctx context.Context, req AdjustStockRequest, actor identity.Actor) (*EntryResponse, error) {
	var entry *ledger.Entry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var applyErr error
		entry, applyErr = Apply(ctx, repos, ApplyRequest{
			ProductID:     req.ProductID,
			Type:          ledger.EntryType(req.Type),
			Change:        req.Change,
			Actor:         actor,
			Reason:        req.Reason,
			ReferenceCode: req.ReferenceCode,
			OrderID:       req.OrderID,
			SupplierID:    req.SupplierID,
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ListByProduct returns a product's ledger history with the total entry count
func (s *StockLedgerService) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]EntryResponse, int64, error) {
	items, err := s.entries.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entries.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return toEntryResponses(items), total, nil
}

// ListByOrder returns the ledger entries linked to an order
func (s *StockLedgerService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]EntryResponse, error) {
	items, err := s.entries.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(items), nil
}

// AuditProduct replays a product's full ledger history and compares the
// result against the live stock counter.
func (s *StockLedgerService) AuditProduct(ctx context.Context, productID uuid.UUID) (*AuditResponse, error) {
	product, err := s.products.FindByIDUnscoped(ctx, productID)
	if err != nil {
		return nil, err
	}
	sum, err := s.entries.SumChangesByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	count, err := s.entries.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &AuditResponse{
		ProductID:    productID,
		LedgerStock:  sum,
		CounterStock: product.Stock,
		Consistent:   sum == product.Stock,
		Entries:      count,
	}, nil
}
