package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ledger"
)

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID     uuid.UUID  `json:"productId" binding:"required"`
	Type          string     `json:"type" binding:"required,oneof=IMPORT SALE RETURN DAMAGED ADJUST"`
	Change        int64      `json:"change"`
	Reason        string     `json:"reason" binding:"max=255"`
	ReferenceCode string     `json:"referenceCode" binding:"max=100"`
	SupplierID    *uuid.UUID `json:"supplierId"`
	OrderID       *uuid.UUID `json:"orderId"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID            uuid.UUID      `json:"_id"`
	ProductID     uuid.UUID      `json:"productId"`
	Type          string         `json:"type"`
	Change        int64          `json:"change"`
	CurrentStock  int64          `json:"currentStock"`
	Actor         identity.Actor `json:"actor"`
	OrderID       *uuid.UUID     `json:"orderId,omitempty"`
	SupplierID    *uuid.UUID     `json:"supplierId,omitempty"`
	ReferenceCode string         `json:"referenceCode"`
	Reason        string         `json:"reason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// AuditResponse reports whether a product's ledger history and its stock
// counter agree.
type AuditResponse struct {
	ProductID    uuid.UUID `json:"productId"`
	LedgerStock  int64     `json:"ledgerStock"`
	CounterStock int64     `json:"counterStock"`
	Consistent   bool      `json:"consistent"`
	Entries      int64     `json:"entries"`
}

func toEntryResponse(e *ledger.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		Type:          e.Type.String(),
		Change:        e.Change,
		CurrentStock:  e.CurrentStock,
		Actor:         e.Actor,
		OrderID:       e.OrderID,
		SupplierID:    e.SupplierID,
		ReferenceCode: e.ReferenceCode,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
	}
}

func toEntryResponses(entries []ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *toEntryResponse(&entries[i]))
	}
	return out
}
