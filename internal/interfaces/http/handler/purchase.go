package handler

import (
	tradeapp "github.com/erp/backoffice/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles purchase documents and their payments
type PurchaseHandler struct {
	BaseHandler
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Create godoc
// @ID           createPurchase
// @Summary      Create a purchase document
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase"
// @Success      201 {object} APIResponse[tradeapp.PurchaseResponse]
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var req tradeapp.CreatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), scope.TenantID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, purchase)
}

// List godoc
// @ID           listPurchases
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "pending, partial, paid or cancelled"
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseListItemResponse]
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var filter tradeapp.PurchaseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	purchases, total, err := h.purchaseService.List(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getPurchase
// @Summary      Get a purchase with its payments and history
// @Tags         purchases
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), scope.TenantID, purchaseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// SetItems replaces the lines of a purchase and re-derives its totals
// @Router /purchases/{id}/items [put]
func (h *PurchaseHandler) SetItems(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.SetItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.SetItems(c.Request.Context(), scope.TenantID, purchaseID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// AddPayment godoc
// @ID           addPurchasePayment
// @Summary      Record a payment against a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.AddPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      422 {object} ErrorResponse "PAYMENT_AMOUNT_INVALID or INVALID_STATE"
// @Router       /purchases/{id}/payments [post]
func (h *PurchaseHandler) AddPayment(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.AddPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.AddPayment(c.Request.Context(), scope.TenantID, purchaseID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// RemovePayment godoc
// @ID           removePurchasePayment
// @Summary      Remove the payment at a position
// @Tags         purchases
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        index path int true "Zero-based payment position"
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} ErrorResponse "PAYMENT_NOT_FOUND"
// @Router       /purchases/{id}/payments/{index} [delete]
func (h *PurchaseHandler) RemovePayment(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	index, ok := h.pathIndex(c, "index")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.RemovePayment(c.Request.Context(), scope.TenantID, purchaseID, scope.User, index)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Cancel freezes a purchase; the body is optional
// @Router /purchases/{id}/cancel [post]
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.CancelPurchaseRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	purchase, err := h.purchaseService.Cancel(c.Request.Context(), scope.TenantID, purchaseID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Reactivate returns a cancelled purchase to its payment-derived status
// @Router /purchases/{id}/reactivate [post]
func (h *PurchaseHandler) Reactivate(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.Reactivate(c.Request.Context(), scope.TenantID, purchaseID, scope.User)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, purchase)
}

// Delete removes a purchase
// @Router /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	purchaseID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.Delete(c.Request.Context(), scope.TenantID, purchaseID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
