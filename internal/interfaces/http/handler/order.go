package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles storefront checkout and admin order endpoints
type OrderHandler struct {
	BaseHandler
	orders *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Checkout handles POST /checkout. Works for both authenticated users and
// guests; the user link comes from the token, never from the body.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req apporder.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.Checkout(c.Request.Context(), req, middleware.GetUserID(c), middleware.GetActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		filter.Filters["payment_status"] = paymentStatus
	}

	items, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListMine handles GET /orders/mine for the authenticated customer
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.orders.ListByUser(c.Request.Context(), *userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateStatus handles PUT /orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apporder.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.UpdateStatus(c.Request.Context(), id, req, middleware.GetActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /orders/:id/cancel for the order's owner
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apporder.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.Cancel(c.Request.Context(), id, req, middleware.GetActor(c), middleware.GetUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ForceCancel handles POST /orders/:id/force-cancel (admin)
func (h *OrderHandler) ForceCancel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apporder.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.ForceCancel(c.Request.Context(), id, req, middleware.GetActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePaymentStatus handles PUT /orders/:id/payment-status (admin)
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apporder.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req, middleware.GetActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
