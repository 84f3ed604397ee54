package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipping  Status = "SHIPPING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipping, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks the regular status machine. Admin force-cancel has a
// wider rule and is checked separately in ForceCancel.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusShipping || target == StatusCancelled
	case StatusShipping:
		return target == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// PaymentStatus represents the payment axis of an order, independent of the
// fulfillment status.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// IsValid returns true if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Item is a line item snapshotted at purchase time. It carries copies of the
// product fields so later catalog edits never alter historical orders.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"_id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	SKU           string          `gorm:"type:varchar(100)" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Image         string          `gorm:"type:varchar(500)" json:"image"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"originalPrice"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// Subtotal returns price * quantity for this line
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// HistoryEntry records one status change. History is append-only and ordered
// by insertion.
type HistoryEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"_id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"orderId"`
	Status    string         `gorm:"type:varchar(20);not null" json:"status"`
	Actor     identity.Actor `gorm:"embedded;embeddedPrefix:actor_" json:"actor"`
	Note      string         `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TableName returns the table name for GORM
func (HistoryEntry) TableName() string {
	return "order_history_entries"
}

// AppliedCoupon records a coupon that contributed to the order's discount
type AppliedCoupon struct {
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Discount decimal.Decimal `json:"discount"`
}

// Order is a checkout transaction. It exclusively owns its item and history
// snapshots; there is no live reference back to Product.
type Order struct {
	shared.BaseEntity
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"userId,omitempty"` // nil = guest
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerPhone   string          `gorm:"type:varchar(50)" json:"customerPhone"`
	CustomerEmail   string          `gorm:"type:varchar(255)" json:"customerEmail"`
	ShippingAddress string          `gorm:"type:varchar(500)" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	Status          Status          `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"paymentStatus"`
	SubTotal        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subTotal"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"shippingFee"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discountAmount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"totalAmount"`
	AppliedCoupons  []AppliedCoupon `gorm:"serializer:json" json:"appliedCoupons"`
	Items           []Item          `gorm:"foreignKey:OrderID;references:ID" json:"items"`
	History         []HistoryEntry  `gorm:"foreignKey:OrderID;references:ID" json:"history"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// CustomerInfo carries the buyer details captured at checkout
type CustomerInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// NewOrder creates an order with a pre-generated ID so stock ledger entries
// created during checkout can reference it before it is persisted. The order
// starts PENDING/UNPAID with its opening history entry.
func NewOrder(id uuid.UUID, userID *uuid.UUID, customer CustomerInfo, paymentMethod string, actor identity.Actor) (*Order, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}

	o := &Order{
		BaseEntity:      shared.NewBaseEntityWithID(id),
		UserID:          userID,
		CustomerName:    strings.TrimSpace(customer.Name),
		CustomerPhone:   strings.TrimSpace(customer.Phone),
		CustomerEmail:   strings.TrimSpace(customer.Email),
		ShippingAddress: strings.TrimSpace(customer.Address),
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		Status:          StatusPending,
		PaymentStatus:   PaymentStatusUnpaid,
		SubTotal:        decimal.Zero,
		ShippingFee:     decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     decimal.Zero,
		AppliedCoupons:  make([]AppliedCoupon, 0),
		Items:           make([]Item, 0),
		History:         make([]HistoryEntry, 0),
	}
	o.appendHistory(string(StatusPending), actor, "order created")
	return o, nil
}

// AddItemSnapshot copies the product's current fields into a new line item.
// The product's price is always used, never a client-submitted one.
func (o *Order) AddItemSnapshot(product *catalog.Product, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	item := Item{
		ID:            uuid.New(),
		OrderID:       o.ID,
		ProductID:     product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Image:         product.Image,
		Quantity:      quantity,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
	}
	o.Items = append(o.Items, item)
	o.SubTotal = o.SubTotal.Add(item.Subtotal())
	return nil
}

// ApplyCoupon records a validated coupon's contribution to the discount.
// The clamp against the order total happens in FinalizeTotals.
func (o *Order) ApplyCoupon(code, couponType string, value, discount decimal.Decimal) {
	o.AppliedCoupons = append(o.AppliedCoupons, AppliedCoupon{
		Code:     code,
		Type:     couponType,
		Value:    value,
		Discount: discount,
	})
	o.DiscountAmount = o.DiscountAmount.Add(discount)
}

// FinalizeTotals sets the shipping fee, clamps the discount so it never
// exceeds subTotal+shippingFee, and computes the grand total (never negative).
func (o *Order) FinalizeTotals(shippingFee decimal.Decimal) {
	if shippingFee.IsNegative() {
		shippingFee = decimal.Zero
	}
	o.ShippingFee = shippingFee

	payable := o.SubTotal.Add(o.ShippingFee)
	if o.DiscountAmount.GreaterThan(payable) {
		o.DiscountAmount = payable
	}

	o.TotalAmount = payable.Sub(o.DiscountAmount)
	if o.TotalAmount.IsNegative() {
		o.TotalAmount = decimal.Zero
	}
}

// TransitionTo moves the order along the regular status machine (CONFIRMED,
// SHIPPING, COMPLETED and the customer-visible CANCELLED edge) and appends a
// history entry.
func (o *Order) TransitionTo(target Status, actor identity.Actor, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(string(o.Status), string(target))
	}

	o.Status = target
	o.UpdatedAt = time.Now()
	o.appendHistory(string(target), actor, note)
	return nil
}

// CancelByCustomer cancels the order through the customer path, allowed only
// from PENDING or CONFIRMED. Stock compensation is the caller's duty.
func (o *Order) CancelByCustomer(actor identity.Actor, reason string) error {
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return shared.NewInvalidTransitionError(string(o.Status), string(StatusCancelled))
	}
	return o.cancel(actor, reason)
}

// ForceCancel cancels the order through the admin path, allowed from any
// state except COMPLETED (and not again once CANCELLED).
func (o *Order) ForceCancel(actor identity.Actor, reason string) error {
	if o.Status == StatusCompleted || o.Status == StatusCancelled {
		return shared.NewInvalidTransitionError(string(o.Status), string(StatusCancelled))
	}
	return o.cancel(actor, reason)
}

func (o *Order) cancel(actor identity.Actor, reason string) error {
	if reason == "" {
		reason = "order cancelled"
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	o.appendHistory(string(StatusCancelled), actor, reason)
	return nil
}

// SetPaymentStatus changes the payment axis and appends a history entry.
// It never implicitly changes the fulfillment status.
func (o *Order) SetPaymentStatus(target PaymentStatus, actor identity.Actor, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	o.PaymentStatus = target
	o.UpdatedAt = time.Now()
	if note == "" {
		note = "payment status set to " + string(target)
	}
	o.appendHistory(string(o.Status), actor, note)
	return nil
}

func (o *Order) appendHistory(status string, actor identity.Actor, note string) {
	o.History = append(o.History, HistoryEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Status:    status,
		Actor:     actor,
		Note:      note,
		CreatedAt: time.Now(),
	})
}

// IsGuest returns true when the order was placed without an account
func (o *Order) IsGuest() bool {
	return o.UserID == nil
}
