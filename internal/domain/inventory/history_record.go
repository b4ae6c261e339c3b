package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryType classifies an entry of the item audit trail
type HistoryType string

const (
	HistoryTypeCreate     HistoryType = "create"
	HistoryTypeUpdate     HistoryType = "update"
	HistoryTypeAdjustment HistoryType = "adjustment"
)

// IsValid checks if the history type is known
func (t HistoryType) IsValid() bool {
	switch t {
	case HistoryTypeCreate, HistoryTypeUpdate, HistoryTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation
func (t HistoryType) String() string {
	return string(t)
}

// HistoryRecord is an immutable audit entry for one mutation of an item.
// ItemID is a back-reference only; records outlive the item they describe.
type HistoryRecord struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	ItemID         uuid.UUID
	Type           HistoryType
	Timestamp      time.Time
	User           string
	QuantityChange *decimal.Decimal
	Reason         string
	Notes          string
	Changes        FieldChanges
}

// NewHistoryRecord creates an empty record of type t for item
func NewHistoryRecord(item *InventoryItem, t HistoryType, user string) *HistoryRecord {
	return &HistoryRecord{
		ID:        uuid.New(),
		TenantID:  item.TenantID,
		ItemID:    item.ID,
		Type:      t,
		Timestamp: item.LastUpdated,
		User:      user,
	}
}
