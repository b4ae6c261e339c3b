package handler

import (
	"github.com/erp/backoffice/internal/interfaces/http/router"
)

// InventoryRoutes creates the route group for the stock ledger
func InventoryRoutes(h *InventoryHandler) *router.DomainGroup {
	group := router.NewDomainGroup("inventory", "/inventory")

	items := group.Group("items", "/items")
	items.POST("", h.Create)
	items.GET("", h.List)
	items.GET("/:id", h.GetByID)
	items.PATCH("/:id", h.Update)
	items.DELETE("/:id", h.Delete)
	items.POST("/:id/adjust", h.Adjust)
	items.GET("/:id/history", h.GetHistory)

	return group
}

// PurchaseRoutes creates the route group for purchases and payments
func PurchaseRoutes(h *PurchaseHandler) *router.DomainGroup {
	group := router.NewDomainGroup("purchases", "/purchases")

	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.DELETE("/:id", h.Delete)
	group.PUT("/:id/items", h.SetItems)
	group.POST("/:id/cancel", h.Cancel)
	group.POST("/:id/reactivate", h.Reactivate)

	// Payments
	group.POST("/:id/payments", h.AddPayment)
	group.DELETE("/:id/payments/:index", h.RemovePayment)

	return group
}

// ReportRoutes creates the route group for the derived views (read-only)
func ReportRoutes(h *ReportHandler) *router.DomainGroup {
	group := router.NewDomainGroup("reports", "/reports")

	group.GET("/low-stock", h.LowStock)
	group.GET("/expiring", h.ExpiringSoon)
	group.GET("/inventory-value", h.InventoryValue)
	group.GET("/categories", h.CategoryRollup)
	group.GET("/purchases", h.PurchaseStats)
	group.GET("/dashboard", h.Dashboard)

	return group
}
