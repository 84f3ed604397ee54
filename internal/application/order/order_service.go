package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	applicationledger "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ledger"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderService handles checkout and order lifecycle operations
type OrderService struct {
	scope  TransactionScope
	orders order.Repository
	config CheckoutConfig
	logger *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope TransactionScope, orders order.Repository, config CheckoutConfig, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		scope:  scope,
		orders: orders,
		config: config,
		logger: logger,
	}
}

// Checkout creates an order in one transaction: product snapshots, per-item
// SALE ledger movements, coupon redemption and the order insert commit
// together or not at all. Invalid coupons are skipped, never fatal; an
// unfulfillable item aborts the whole checkout.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest, userID *uuid.UUID, actor identity.Actor) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	quantities := make(map[uuid.UUID]int64)
	productOrder := make([]uuid.UUID, 0, len(req.Items))
	for _, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if _, seen := quantities[in.ProductID]; !seen {
			productOrder = append(productOrder, in.ProductID)
		}
		quantities[in.ProductID] += in.Quantity
	}

	orderID := uuid.New()
	var created *order.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := order.NewOrder(orderID, userID, order.CustomerInfo{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Email:   req.CustomerEmail,
			Address: req.Address,
		}, req.PaymentMethod, actor)
		if err != nil {
			return err
		}

		for _, productID := range productOrder {
			qty := quantities[productID]
			product, err := repos.Products().FindByID(ctx, productID)
			if err != nil {
				return err
			}
			if !product.IsAvailable {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for sale")
			}
			if err := o.AddItemSnapshot(product, qty); err != nil {
				return err
			}
			if _, err := applicationledger.Apply(ctx, repos, applicationledger.ApplyRequest{
				ProductID: productID,
				Type:      ledger.EntryTypeSale,
				Change:    -qty,
				Actor:     actor,
				Reason:    "order sale",
				OrderID:   &orderID,
			}); err != nil {
				return err
			}
		}

		s.applyCoupons(ctx, repos, o, req.CouponCodes)

		o.FinalizeTotals(s.config.FeeFor(o.SubTotal))

		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", created.ID.String()),
		zap.String("total", created.TotalAmount.String()),
		zap.Int("items", len(created.Items)))
	return toOrderResponse(created), nil
}

// applyCoupons validates and redeems each requested coupon against the
// order's merchandise subtotal. A coupon that fails any check, including a
// concurrent usage-cap race, is logged and skipped.
func (s *OrderService) applyCoupons(ctx context.Context, repos TransactionalRepositories, o *order.Order, codes []string) {
	now := time.Now()
	seen := make(map[string]bool)
	for _, raw := range codes {
		code := promotion.NormalizeCode(raw)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		coupon, err := repos.Coupons().FindByCode(ctx, code)
		if err != nil {
			s.logger.Warn("coupon skipped",
				zap.String("order_id", o.ID.String()),
				zap.String("code", code),
				zap.Error(err))
			continue
		}
		if err := coupon.ValidateForUse(o.SubTotal, now); err != nil {
			s.logger.Warn("coupon skipped",
				zap.String("order_id", o.ID.String()),
				zap.String("code", code),
				zap.Error(err))
			continue
		}
		if err := repos.Coupons().IncrementUsage(ctx, coupon.ID); err != nil {
			s.logger.Warn("coupon skipped",
				zap.String("order_id", o.ID.String()),
				zap.String("code", code),
				zap.Error(err))
			continue
		}

		discount := coupon.DiscountFor(o.SubTotal)
		o.ApplyCoupon(coupon.Code, string(coupon.Type), coupon.Value, discount)
	}
}

// GetByID retrieves an order with its items and history
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// List retrieves orders with the total count
func (s *OrderService) List(ctx context.Context, filter shared.Filter) ([]ListItemResponse, int64, error) {
	items, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toListItemResponses(items), total, nil
}

// ListByUser retrieves one user's orders, newest first
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]ListItemResponse, error) {
	items, err := s.orders.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return toListItemResponses(items), nil
}

// UpdateStatus moves an order along the status machine. A CANCELLED target
// goes through the admin cancel path so stock compensation is never skipped.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest, actor identity.Actor) (*OrderResponse, error) {
	target := order.Status(req.Status)
	if target == order.StatusCancelled {
		return s.cancel(ctx, id, req.Note, actor, nil, true)
	}

	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(target, actor, req.Note); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Cancel cancels an order through the customer path: allowed only from
// PENDING or CONFIRMED, and only for the order's owner.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest, actor identity.Actor, userID *uuid.UUID) (*OrderResponse, error) {
	return s.cancel(ctx, id, req.Reason, actor, userID, false)
}

// ForceCancel cancels an order through the admin path, allowed from any
// state except COMPLETED.
func (s *OrderService) ForceCancel(ctx context.Context, id uuid.UUID, req CancelRequest, actor identity.Actor) (*OrderResponse, error) {
	return s.cancel(ctx, id, req.Reason, actor, nil, true)
}

// cancel runs the cancellation and its stock compensation in one
// transaction: a RETURN ledger movement per line item restores exactly what
// the checkout's SALE movements removed.
func (s *OrderService) cancel(ctx context.Context, id uuid.UUID, reason string, actor identity.Actor, userID *uuid.UUID, force bool) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !force {
			if userID == nil || o.UserID == nil || *o.UserID != *userID {
				return shared.ErrForbidden
			}
			if err := o.CancelByCustomer(actor, reason); err != nil {
				return err
			}
		} else {
			if err := o.ForceCancel(actor, reason); err != nil {
				return err
			}
		}

		orderID := o.ID
		for _, item := range o.Items {
			if _, err := applicationledger.Apply(ctx, repos, applicationledger.ApplyRequest{
				ProductID: item.ProductID,
				Type:      ledger.EntryTypeReturn,
				Change:    item.Quantity,
				Actor:     actor,
				Reason:    "order cancelled",
				OrderID:   &orderID,
			}); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", cancelled.ID.String()),
		zap.Bool("forced", force))
	return toOrderResponse(cancelled), nil
}

// UpdatePaymentStatus changes the payment axis without touching the
// fulfillment status.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdatePaymentStatusRequest, actor identity.Actor) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.SetPaymentStatus(order.PaymentStatus(req.PaymentStatus), actor, req.Note); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}
