package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/storefront/backend/internal/application/identity"
)

// RoleHandler handles role administration endpoints
type RoleHandler struct {
	BaseHandler
	roles *appidentity.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roles *appidentity.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// Create handles POST /roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req appidentity.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.roles.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	resp, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /roles
func (h *RoleHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.roles.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PUT /roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	var req appidentity.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.roles.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	resp, err := h.roles.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
