package inventory

import (
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
	StockValue  decimal.Decimal `json:"stock_value"`
	Supplier    string          `json:"supplier"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Location    string          `json:"location"`
	SKU         string          `json:"sku"`
	Notes       string          `json:"notes"`
	Tags        []string        `json:"tags"`
	IsLowStock  bool            `json:"is_low_stock"`
	LastUpdated time.Time       `json:"last_updated"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     int             `json:"version"`
}

// HistoryRecordResponse represents one audit trail entry
type HistoryRecordResponse struct {
	ID             uuid.UUID                        `json:"id"`
	ItemID         uuid.UUID                        `json:"item_id"`
	Type           string                           `json:"type"`
	Timestamp      time.Time                        `json:"timestamp"`
	User           string                           `json:"user,omitempty"`
	QuantityChange *decimal.Decimal                 `json:"quantity_change,omitempty"`
	Reason         string                           `json:"reason,omitempty"`
	Notes          string                           `json:"notes,omitempty"`
	Changes        map[string]inventory.FieldChange `json:"changes,omitempty"`
}

// InventoryListFilter represents filter options for the item list
type InventoryListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock *bool  `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateItemRequest represents a request to add an item to the ledger
type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Unit        string          `json:"unit" binding:"max=20"`
	Category    string          `json:"category" binding:"max=100"`
	Cost        decimal.Decimal `json:"cost"`
	Supplier    string          `json:"supplier" binding:"max=200"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Location    string          `json:"location" binding:"max=100"`
	SKU         string          `json:"sku" binding:"max=100"`
	Notes       string          `json:"notes" binding:"max=2000"`
	Tags        []string        `json:"tags" binding:"max=50,dive,max=50"`
}

// Validate rejects negative numbers and values beyond the stored scale,
// which the binding tags cannot express for decimals
func (r CreateItemRequest) Validate() error {
	return checkDecimals([]decimalField{
		{"quantity", &r.Quantity},
		{"min_quantity", &r.MinQuantity},
		{"cost", &r.Cost},
	})
}

// ToAttributes converts the request to domain attributes
func (r CreateItemRequest) ToAttributes() inventory.ItemAttributes {
	return inventory.ItemAttributes{
		Name:        r.Name,
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
		Unit:        r.Unit,
		Category:    r.Category,
		Cost:        r.Cost,
		Supplier:    r.Supplier,
		ExpiryDate:  r.ExpiryDate,
		Location:    r.Location,
		SKU:         r.SKU,
		Notes:       r.Notes,
		Tags:        r.Tags,
	}
}

// UpdateItemRequest is a partial update; omitted fields are left alone
type UpdateItemRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Quantity        *decimal.Decimal `json:"quantity"`
	MinQuantity     *decimal.Decimal `json:"min_quantity"`
	Unit            *string          `json:"unit" binding:"omitempty,max=20"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	Cost            *decimal.Decimal `json:"cost"`
	Supplier        *string          `json:"supplier" binding:"omitempty,max=200"`
	ExpiryDate      *time.Time       `json:"expiry_date"`
	ClearExpiryDate bool             `json:"clear_expiry_date"`
	Location        *string          `json:"location" binding:"omitempty,max=100"`
	SKU             *string          `json:"sku" binding:"omitempty,max=100"`
	Notes           *string          `json:"notes" binding:"omitempty,max=2000"`
	Tags            *[]string        `json:"tags" binding:"omitempty,max=50"`
}

// Validate rejects negative thresholds and costs.
// A negative quantity is a ledger rule and is left to the domain.
func (r UpdateItemRequest) Validate() error {
	return checkDecimals([]decimalField{
		{"min_quantity", r.MinQuantity},
		{"cost", r.Cost},
	})
}

// ToChanges converts the request to a typed changeset
func (r UpdateItemRequest) ToChanges() inventory.ItemChanges {
	changes := inventory.ItemChanges{
		Name:            r.Name,
		Quantity:        r.Quantity,
		MinQuantity:     r.MinQuantity,
		Unit:            r.Unit,
		Category:        r.Category,
		Cost:            r.Cost,
		Supplier:        r.Supplier,
		ExpiryDate:      r.ExpiryDate,
		ClearExpiryDate: r.ClearExpiryDate,
		Location:        r.Location,
		SKU:             r.SKU,
		Notes:           r.Notes,
	}
	if r.Tags != nil {
		changes.Tags = *r.Tags
		changes.SetTags = true
	}
	return changes
}

// AdjustStockRequest represents a signed quantity adjustment
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"max=200"`
	Notes  string          `json:"notes" binding:"max=2000"`
}

type decimalField struct {
	name  string
	value *decimal.Decimal
}

// checkDecimals reports the first offending field in declaration order
func checkDecimals(fields []decimalField) error {
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if f.value.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, f.name+" cannot be negative")
		}
		if shared.ExceedsScale(*f.value) {
			return shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("%s allows at most %d decimal places", f.name, shared.DecimalPlaces))
		}
	}
	return nil
}

// ToInventoryItemResponse converts a domain item to a response
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return InventoryItemResponse{
		ID:          item.ID,
		TenantID:    item.TenantID,
		Name:        item.Name,
		Quantity:    item.Quantity,
		MinQuantity: item.MinQuantity,
		Unit:        item.Unit,
		Category:    item.Category,
		Cost:        item.Cost,
		StockValue:  item.StockValue(),
		Supplier:    item.Supplier,
		ExpiryDate:  item.ExpiryDate,
		Location:    item.Location,
		SKU:         item.SKU,
		Notes:       item.Notes,
		Tags:        tags,
		IsLowStock:  item.IsLowStock(),
		LastUpdated: item.LastUpdated,
		CreatedAt:   item.CreatedAt,
		Version:     item.Version,
	}
}

// ToInventoryItemResponses converts a slice of items
func ToInventoryItemResponses(items []inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i])
	}
	return responses
}

// ToHistoryRecordResponses converts history records
func ToHistoryRecordResponses(records []inventory.HistoryRecord) []HistoryRecordResponse {
	responses := make([]HistoryRecordResponse, len(records))
	for i, r := range records {
		responses[i] = HistoryRecordResponse{
			ID:             r.ID,
			ItemID:         r.ItemID,
			Type:           r.Type.String(),
			Timestamp:      r.Timestamp,
			User:           r.User,
			QuantityChange: r.QuantityChange,
			Reason:         r.Reason,
			Notes:          r.Notes,
			Changes:        r.Changes,
		}
	}
	return responses
}
