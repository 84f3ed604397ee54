package handler

import (
	"github.com/gin-gonic/gin"

	apppromotion "github.com/storefront/backend/internal/application/promotion"
)

// CouponHandler handles coupon administration and validation endpoints
type CouponHandler struct {
	BaseHandler
	coupons *apppromotion.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *apppromotion.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Create handles POST /coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req apppromotion.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.coupons.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	resp, err := h.coupons.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /coupons
func (h *CouponHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if active := c.Query("is_active"); active != "" {
		filter.Filters["is_active"] = active == "true"
	}

	items, total, err := h.coupons.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PUT /coupons/:id
func (h *CouponHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req apppromotion.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.coupons.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	resp, err := h.coupons.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Validate handles POST /coupons/validate, the storefront's pre-checkout
// coupon check. Rejections come back as data, not errors.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req apppromotion.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.coupons.Validate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
