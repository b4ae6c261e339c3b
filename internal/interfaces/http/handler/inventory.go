package handler

import (
	inventoryapp "github.com/erp/backoffice/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles inventory-related API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// Create godoc
// @ID           createInventoryItem
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body inventoryapp.CreateItemRequest true "Item"
// @Success      201 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /inventory/items [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), scope.TenantID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// List godoc
// @ID           listInventoryItems
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        search query string false "Name, SKU or supplier"
// @Param        category query string false "Exact category"
// @Param        low_stock query bool false "Only items at or below their minimum"
// @Success      200 {object} APIResponse[[]inventoryapp.InventoryItemResponse]
// @Router       /inventory/items [get]
func (h *InventoryHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var filter inventoryapp.InventoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.inventoryService.List(c.Request.Context(), scope.TenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	// the service applies the same defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getInventoryItem
// @Summary      Get inventory item by ID
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/items/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetByID(c.Request.Context(), scope.TenantID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Update godoc
// @ID           updateInventoryItem
// @Summary      Update inventory item attributes
// @Description  Only the supplied fields change; one history entry records the changed fields
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Param        request body inventoryapp.UpdateItemRequest true "Changes"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /inventory/items/{id} [patch]
func (h *InventoryHandler) Update(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), scope.TenantID, itemID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Adjust godoc
// @ID           adjustInventoryItem
// @Summary      Adjust stock by a signed delta
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.InventoryItemResponse]
// @Failure      422 {object} ErrorResponse "INSUFFICIENT_STOCK"
// @Router       /inventory/items/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.inventoryService.Adjust(c.Request.Context(), scope.TenantID, itemID, scope.User, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete godoc
// @ID           deleteInventoryItem
// @Summary      Delete inventory item
// @Description  The item's history is kept
// @Tags         inventory
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /inventory/items/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), scope.TenantID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetHistory godoc
// @ID           getInventoryItemHistory
// @Summary      Audit trail of an inventory item, newest first
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Inventory Item ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.HistoryRecordResponse]
// @Router       /inventory/items/{id}/history [get]
func (h *InventoryHandler) GetHistory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	records, err := h.inventoryService.GetHistory(c.Request.Context(), scope.TenantID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}
