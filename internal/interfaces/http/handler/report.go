package handler

import (
	"time"

	reportapp "github.com/erp/backoffice/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the derived views. Every view is recomputed from the
// current records on each request.
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExpiringQuery overrides the look-ahead window of the expiring report
type ExpiringQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=3650"`
}

// LowStock lists items at or below their minimum quantity
func (h *ReportHandler) LowStock(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	items, err := h.reportService.LowStock(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// ExpiringSoon lists items expiring within the window, `days` overrides it
func (h *ReportHandler) ExpiringSoon(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var q ExpiringQuery
	if !h.bindQuery(c, &q) {
		return
	}

	// zero lets the service use the configured window
	window := time.Duration(q.Days) * 24 * time.Hour
	resp, err := h.reportService.ExpiringSoon(c.Request.Context(), scope.TenantID, window)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// InventoryValue returns the summed stock value
func (h *ReportHandler) InventoryValue(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	resp, err := h.reportService.InventoryValue(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// CategoryRollup returns per-category totals
func (h *ReportHandler) CategoryRollup(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	resp, err := h.reportService.CategoryRollup(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// PurchaseStats summarizes the purchase book
func (h *ReportHandler) PurchaseStats(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	resp, err := h.reportService.PurchaseStats(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Dashboard returns every view computed from one snapshot
func (h *ReportHandler) Dashboard(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	resp, err := h.reportService.Dashboard(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
