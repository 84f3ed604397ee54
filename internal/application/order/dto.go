package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
)

// CheckoutConfig carries the shipping pricing knobs applied during checkout
type CheckoutConfig struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// DefaultCheckoutConfig returns the standard shipping pricing
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		ShippingFee:           decimal.NewFromInt(30000),
		FreeShippingThreshold: decimal.NewFromInt(500000),
	}
}

// FeeFor returns the shipping fee for the given merchandise subtotal
func (c CheckoutConfig) FeeFor(subTotal decimal.Decimal) decimal.Decimal {
	if subTotal.GreaterThanOrEqual(c.FreeShippingThreshold) {
		return decimal.Zero
	}
	return c.ShippingFee
}

// CheckoutItemInput is one requested line in a checkout
type CheckoutItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a checkout submission. UserID is resolved from
// the authenticated actor, never from the body; guests leave it nil.
type CheckoutRequest struct {
	Items         []CheckoutItemInput `json:"items" binding:"required,min=1,dive"`
	CustomerName  string              `json:"customerName" binding:"required,min=1,max=255"`
	CustomerPhone string              `json:"customerPhone" binding:"max=50"`
	CustomerEmail string              `json:"customerEmail" binding:"omitempty,email"`
	Address       string              `json:"address" binding:"max=500"`
	PaymentMethod string              `json:"paymentMethod" binding:"required,min=1,max=50"`
	CouponCodes   []string            `json:"couponCodes" binding:"max=5"`
}

// UpdateStatusRequest represents an order status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED SHIPPING COMPLETED CANCELLED"`
	Note   string `json:"note" binding:"max=255"`
}

// CancelRequest represents an order cancellation
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// UpdatePaymentStatusRequest represents a payment status change
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required,oneof=UNPAID PAID REFUNDED"`
	Note          string `json:"note" binding:"max=255"`
}

// ItemResponse represents an order line in API responses
type ItemResponse struct {
	ID            uuid.UUID       `json:"_id"`
	ProductID     uuid.UUID       `json:"productId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// HistoryEntryResponse represents one status change in API responses
type HistoryEntryResponse struct {
	Status    string         `json:"status"`
	Actor     identity.Actor `json:"actor"`
	Note      string         `json:"note,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// OrderResponse represents a full order in API responses
type OrderResponse struct {
	ID              uuid.UUID             `json:"_id"`
	UserID          *uuid.UUID            `json:"userId,omitempty"`
	CustomerName    string                `json:"customerName"`
	CustomerPhone   string                `json:"customerPhone,omitempty"`
	CustomerEmail   string                `json:"customerEmail,omitempty"`
	ShippingAddress string                `json:"shippingAddress,omitempty"`
	PaymentMethod   string                `json:"paymentMethod"`
	Status          string                `json:"status"`
	PaymentStatus   string                `json:"paymentStatus"`
	SubTotal        decimal.Decimal       `json:"subTotal"`
	ShippingFee     decimal.Decimal       `json:"shippingFee"`
	DiscountAmount  decimal.Decimal       `json:"discountAmount"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	AppliedCoupons  []order.AppliedCoupon `json:"appliedCoupons"`
	Items           []ItemResponse        `json:"items"`
	History         []HistoryEntryResponse `json:"history"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ListItemResponse represents an order row in list endpoints
type ListItemResponse struct {
	ID            uuid.UUID       `json:"_id"`
	CustomerName  string          `json:"customerName"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ItemCount     int             `json:"itemCount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			SKU:           it.SKU,
			Name:          it.Name,
			Image:         it.Image,
			Quantity:      it.Quantity,
			Price:         it.Price,
			OriginalPrice: it.OriginalPrice,
			Subtotal:      it.Subtotal(),
		})
	}
	history := make([]HistoryEntryResponse, 0, len(o.History))
	for _, h := range o.History {
		history = append(history, HistoryEntryResponse{
			Status:    h.Status,
			Actor:     h.Actor,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}
	return &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		SubTotal:        o.SubTotal,
		ShippingFee:     o.ShippingFee,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		AppliedCoupons:  o.AppliedCoupons,
		Items:           items,
		History:         history,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toListItemResponses(orders []*order.Order) []ListItemResponse {
	out := make([]ListItemResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ListItemResponse{
			ID:            o.ID,
			CustomerName:  o.CustomerName,
			Status:        string(o.Status),
			PaymentStatus: string(o.PaymentStatus),
			TotalAmount:   o.TotalAmount,
			ItemCount:     len(o.Items),
			CreatedAt:     o.CreatedAt,
		})
	}
	return out
}
