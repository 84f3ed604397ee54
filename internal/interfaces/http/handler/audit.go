package handler

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/storefront/backend/internal/application/audit"
)

// AuditHandler handles audit trail query endpoints
type AuditHandler struct {
	BaseHandler
	audits *appaudit.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audits *appaudit.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List handles GET /audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if resource := c.Query("resource"); resource != "" {
		filter.Filters["resource"] = resource
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}

	items, total, err := h.audits.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListByResource handles GET /audit-logs/:resource/:id
func (h *AuditHandler) ListByResource(c *gin.Context) {
	resource := c.Param("resource")
	resourceID := c.Param("id")
	if resource == "" || resourceID == "" {
		h.BadRequest(c, "Resource and resource ID are required")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.audits.ListByResource(c.Request.Context(), resource, resourceID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}
