package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root
type InventoryItemModel struct {
	TenantAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit        string          `gorm:"type:varchar(20)"`
	Category    string          `gorm:"type:varchar(100);index"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Supplier    string          `gorm:"type:varchar(200)"`
	ExpiryDate  *time.Time
	Location    string    `gorm:"type:varchar(100)"`
	SKU         string    `gorm:"column:sku;type:varchar(100);index"`
	Notes       string    `gorm:"type:text"`
	Tags        []string  `gorm:"serializer:json;type:jsonb"`
	LastUpdated time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &inventory.InventoryItem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Quantity:            m.Quantity,
		MinQuantity:         m.MinQuantity,
		Unit:                m.Unit,
		Category:            m.Category,
		Cost:                m.Cost,
		Supplier:            m.Supplier,
		ExpiryDate:          m.ExpiryDate,
		Location:            m.Location,
		SKU:                 m.SKU,
		Notes:               m.Notes,
		Tags:                tags,
		LastUpdated:         m.LastUpdated,
	}
}

// InventoryItemModelFromDomain creates a model from a domain InventoryItem
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		Name:        i.Name,
		Quantity:    i.Quantity,
		MinQuantity: i.MinQuantity,
		Unit:        i.Unit,
		Category:    i.Category,
		Cost:        i.Cost,
		Supplier:    i.Supplier,
		ExpiryDate:  i.ExpiryDate,
		Location:    i.Location,
		SKU:         i.SKU,
		Notes:       i.Notes,
		Tags:        i.Tags,
		LastUpdated: i.LastUpdated,
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// InventoryHistoryModel is one row of the append-only item audit trail.
// ItemID has no foreign key so the trail survives item deletion.
type InventoryHistoryModel struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_inventory_history_item,priority:1"`
	ItemID         uuid.UUID              `gorm:"type:uuid;not null;index:idx_inventory_history_item,priority:2"`
	Type           string                 `gorm:"type:varchar(20);not null"`
	Timestamp      time.Time              `gorm:"not null;index:idx_inventory_history_item,priority:3"`
	User           string                 `gorm:"column:user_name;type:varchar(100)"`
	QuantityChange *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	Reason         string                 `gorm:"type:varchar(200)"`
	Notes          string                 `gorm:"type:text"`
	Changes        inventory.FieldChanges `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (InventoryHistoryModel) TableName() string {
	return "inventory_history"
}

// ToDomain converts the model to a domain HistoryRecord
func (m *InventoryHistoryModel) ToDomain() *inventory.HistoryRecord {
	return &inventory.HistoryRecord{
		ID:             m.ID,
		TenantID:       m.TenantID,
		ItemID:         m.ItemID,
		Type:           inventory.HistoryType(m.Type),
		Timestamp:      m.Timestamp,
		User:           m.User,
		QuantityChange: m.QuantityChange,
		Reason:         m.Reason,
		Notes:          m.Notes,
		Changes:        m.Changes,
	}
}

// InventoryHistoryModelFromDomain creates a model from a domain HistoryRecord
func InventoryHistoryModelFromDomain(r *inventory.HistoryRecord) *InventoryHistoryModel {
	return &InventoryHistoryModel{
		ID:             r.ID,
		TenantID:       r.TenantID,
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
