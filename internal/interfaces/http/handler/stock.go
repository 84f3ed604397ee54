package handler

import (
	"github.com/gin-gonic/gin"

	appledger "github.com/storefront/backend/internal/application/ledger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StockHandler handles stock adjustment and ledger query endpoints
type StockHandler struct {
	BaseHandler
	ledger *appledger.StockLedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *appledger.StockLedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Adjust handles POST /stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var req appledger.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.ledger.AdjustStock(c.Request.Context(), req, middleware.GetActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	middleware.SetAuditResourceID(c, req.ProductID.String())
	h.Created(c, resp)
}

// LedgerByProduct handles GET /stock/ledger/:id for one product
func (h *StockHandler) LedgerByProduct(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	if entryType := c.Query("type"); entryType != "" {
		filter.Filters["type"] = entryType
	}

	items, total, err := h.ledger.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// LedgerByOrder handles GET /stock/ledger/order/:id
func (h *StockHandler) LedgerByOrder(c *gin.Context) {
	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	items, err := h.ledger.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// Audit handles GET /stock/audit/:id, comparing a product's ledger history
// against its live stock counter.
func (h *StockHandler) Audit(c *gin.Context) {
	productID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.ledger.AuditProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
