package inventory

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeInventoryItemCreated = "InventoryItemCreated"
	EventTypeInventoryItemUpdated = "InventoryItemUpdated"
	EventTypeStockAdjusted        = "StockAdjusted"
	EventTypeStockLow             = "StockLow"
)

// InventoryItemCreatedEvent is raised when an item enters the ledger
type InventoryItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewInventoryItemCreatedEvent creates a new InventoryItemCreatedEvent
func NewInventoryItemCreatedEvent(item *InventoryItem) *InventoryItemCreatedEvent {
	return &InventoryItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemCreated, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
	}
}

// InventoryItemUpdatedEvent is raised when an update changed at least one field
type InventoryItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID `json:"item_id"`
	ChangedFields []string  `json:"changed_fields"`
}

// NewInventoryItemUpdatedEvent creates a new InventoryItemUpdatedEvent
func NewInventoryItemUpdatedEvent(item *InventoryItem, fields []string) *InventoryItemUpdatedEvent {
	return &InventoryItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemUpdated, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		ChangedFields:   fields,
	}
}

// StockAdjustedEvent is raised after a successful adjustment
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Delta          decimal.Decimal `json:"delta"`
	Reason         string          `json:"reason,omitempty"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, before, after, delta decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		QuantityBefore:  before,
		QuantityAfter:   after,
		Delta:           delta,
		Reason:          reason,
	}
}

// StockLowEvent is raised when a quantity change leaves the item at or below its threshold
type StockLowEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewStockLowEvent creates a new StockLowEvent
func NewStockLowEvent(item *InventoryItem) *StockLowEvent {
	return &StockLowEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLow, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		MinQuantity:     item.MinQuantity,
	}
}
