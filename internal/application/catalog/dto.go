package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product. InitialStock
// is seeded through the stock ledger so the product's opening IMPORT entry
// always exists.
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	SKU           string          `json:"sku" binding:"max=100"`
	Image         string          `json:"image" binding:"max=500"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	InitialStock  int64           `json:"initialStock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product's catalog
// fields. Stock is absent on purpose; it only moves through the ledger.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	SKU           string          `json:"sku" binding:"max=100"`
	Image         string          `json:"image" binding:"max=500"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	IsAvailable   bool            `json:"isAvailable"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"_id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku,omitempty"`
	Image         string          `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Stock         int64           `json:"stock"`
	Sold          int64           `json:"sold"`
	IsAvailable   bool            `json:"isAvailable"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Image:         p.Image,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Stock:         p.Stock,
		Sold:          p.Sold,
		IsAvailable:   p.IsAvailable,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *toProductResponse(&products[i]))
	}
	return out
}
