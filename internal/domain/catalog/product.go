package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a sellable item. Its Stock and Sold counters are derived
// quantities: the stock ledger is the only legal mutation path for them, and
// at any time Stock equals the sum of all ledger entry changes for the product.
type Product struct {
	shared.SoftDeleteEntity
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	SKU           string          `gorm:"type:varchar(100);index" json:"sku"`
	Image         string          `gorm:"type:varchar(500)" json:"image"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"originalPrice"`
	Stock         int64           `gorm:"not null;default:0" json:"stock"`
	Sold          int64           `gorm:"not null;default:0" json:"sold"`
	IsAvailable   bool            `gorm:"not null;default:true" json:"isAvailable"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. Stock starts at zero; the caller seeds the
// initial quantity through the ledger engine so the first IMPORT entry exists.
func NewProduct(name, sku, image string, price, originalPrice decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if originalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Original price cannot be negative")
	}
	if originalPrice.IsZero() {
		originalPrice = price
	}

	return &Product{
		SoftDeleteEntity: shared.SoftDeleteEntity{BaseEntity: shared.NewBaseEntity()},
		Name:             name,
		SKU:              strings.TrimSpace(sku),
		Image:            image,
		Price:            price,
		OriginalPrice:    originalPrice,
		Stock:            0,
		Sold:             0,
		IsAvailable:      true,
	}, nil
}

// CanFulfill returns true if the product has enough stock for the quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.Stock >= quantity
}

// Update changes the product's catalog fields. Stock and Sold are never
// touched here.
func (p *Product) Update(name, sku, image string, price, originalPrice decimal.Decimal, isAvailable bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() || originalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.SKU = strings.TrimSpace(sku)
	p.Image = image
	p.Price = price
	p.OriginalPrice = originalPrice
	p.IsAvailable = isAvailable
	p.UpdatedAt = time.Now()
	return nil
}
