package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// EntryType classifies a stock movement
type EntryType string

const (
	// EntryTypeImport is stock received from a supplier or initial seeding
	EntryTypeImport EntryType = "IMPORT"
	// EntryTypeSale is stock sold through an order
	EntryTypeSale EntryType = "SALE"
	// EntryTypeReturn is stock restored by an order cancellation or return
	EntryTypeReturn EntryType = "RETURN"
	// EntryTypeDamaged is stock written off as damaged
	EntryTypeDamaged EntryType = "DAMAGED"
	// EntryTypeAdjust is a manual correction by an admin
	EntryTypeAdjust EntryType = "ADJUST"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is known
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeImport, EntryTypeSale, EntryTypeReturn, EntryTypeDamaged, EntryTypeAdjust:
		return true
	}
	return false
}

// ValidateChange checks that a change value carries the sign its entry type
// requires: IMPORT and RETURN add stock, SALE and DAMAGED remove it, ADJUST
// goes either way but never zero.
func ValidateChange(entryType EntryType, change int64) error {
	switch entryType {
	case EntryTypeImport:
		if change < 0 {
			return shared.NewDomainError("INVALID_CHANGE", "IMPORT change cannot be negative")
		}
	case EntryTypeReturn:
		if change <= 0 {
			return shared.NewDomainError("INVALID_CHANGE", "RETURN change must be positive")
		}
	case EntryTypeSale:
		if change >= 0 {
			return shared.NewDomainError("INVALID_CHANGE", "SALE change must be negative")
		}
	case EntryTypeDamaged:
		if change >= 0 {
			return shared.NewDomainError("INVALID_CHANGE", "DAMAGED change must be negative")
		}
	case EntryTypeAdjust:
		if change == 0 {
			return shared.NewDomainError("INVALID_CHANGE", "ADJUST change cannot be zero")
		}
	default:
		return shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	return nil
}

// Entry is an immutable record of one stock change. Once written it is never
// updated or deleted; corrections are made with new entries. CurrentStock is
// the stock value immediately after the change was applied, kept as a
// point-in-time snapshot rather than recomputed later.
type Entry struct {
	shared.BaseEntity
	ProductID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"productId"`
	Type          EntryType      `gorm:"type:varchar(20);not null;index" json:"type"`
	Change        int64          `gorm:"not null" json:"change"`
	CurrentStock  int64          `gorm:"not null" json:"currentStock"`
	Actor         identity.Actor `gorm:"embedded;embeddedPrefix:actor_" json:"actor"`
	OrderID       *uuid.UUID     `gorm:"type:uuid;index" json:"orderId,omitempty"`
	SupplierID    *uuid.UUID     `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	ReferenceCode string         `gorm:"type:varchar(100);not null" json:"referenceCode"`
	Reason        string         `gorm:"type:varchar(255)" json:"reason"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "stock_ledger_entries"
}

// NewEntry creates a ledger entry. A zero change is only meaningful for
// IMPORT (a product created without seed stock still gets its opening entry).
func NewEntry(productID uuid.UUID, entryType EntryType, change, currentStock int64, actor identity.Actor, reason string) (*Entry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if change == 0 && entryType != EntryTypeImport {
		return nil, shared.NewDomainError("INVALID_CHANGE", "Ledger change cannot be zero")
	}
	if currentStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock snapshot cannot be negative")
	}

	return &Entry{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		Type:         entryType,
		Change:       change,
		CurrentStock: currentStock,
		Actor:        actor,
		Reason:       reason,
	}, nil
}

// WithOrderID links the entry to an order
func (e *Entry) WithOrderID(orderID uuid.UUID) *Entry {
	e.OrderID = &orderID
	return e
}

// WithSupplierID links the entry to a supplier
func (e *Entry) WithSupplierID(supplierID uuid.UUID) *Entry {
	e.SupplierID = &supplierID
	return e
}

// WithReferenceCode sets the caller-supplied reference code
func (e *Entry) WithReferenceCode(code string) *Entry {
	e.ReferenceCode = code
	return e
}

// SynthesizeReferenceCode fills in the engine-generated reference code when
// the caller supplied none, in the form "{type}-{unixMillis}".
func (e *Entry) SynthesizeReferenceCode(now time.Time) {
	if e.ReferenceCode == "" {
		e.ReferenceCode = fmt.Sprintf("%s-%d", e.Type, now.UnixMilli())
	}
}

// ReplayStock folds a product's full ledger history into the stock value it
// implies. It exists for audits: the result must equal the product's current
// stock counter exactly.
func ReplayStock(entries []Entry) int64 {
	var stock int64
	for i := range entries {
		stock += entries[i].Change
	}
	return stock
}
