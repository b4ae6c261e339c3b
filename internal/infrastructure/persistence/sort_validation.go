package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, else defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"last_updated": true,
	"name":         true,
	"sku":          true,
	"category":     true,
	"quantity":     true,
	"min_quantity": true,
	"cost":         true,
	"expiry_date":  true,
}

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"date":         true,
	"due_date":     true,
	"number":       true,
	"supplier":     true,
	"status":       true,
	"total_amount": true,
	"paid_amount":  true,
}

// likePattern builds a case-insensitive contains pattern that works on
// both postgres and sqlite when compared against LOWER(column)
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
