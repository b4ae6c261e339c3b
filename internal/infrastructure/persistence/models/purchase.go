package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseModel is the persistence model for the Purchase aggregate root.
// Items, payments and the history log are JSON columns of the same row so
// every mutation is a single-row write.
type PurchaseModel struct {
	TenantAggregateModel
	Type         string    `gorm:"type:varchar(20);not null;index"`
	Number       string    `gorm:"type:varchar(50);not null"`
	Supplier     string    `gorm:"type:varchar(200);index"`
	Date         time.Time `gorm:"not null"`
	DueDate      *time.Time
	TotalAmount  decimal.Decimal              `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount   decimal.Decimal              `gorm:"type:decimal(18,4);not null;default:0"`
	Status       string                       `gorm:"type:varchar(20);not null;index"`
	CancelReason string                       `gorm:"type:varchar(500)"`
	Notes        string                       `gorm:"type:text"`
	Items        []trade.PurchaseItem         `gorm:"serializer:json;type:jsonb"`
	Payments     []trade.Payment              `gorm:"serializer:json;type:jsonb"`
	History      []trade.PurchaseHistoryEntry `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the model to a domain Purchase
func (m *PurchaseModel) ToDomain() *trade.Purchase {
	p := &trade.Purchase{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Type:                trade.PurchaseType(m.Type),
		Number:              m.Number,
		Supplier:            m.Supplier,
		Date:                m.Date,
		DueDate:             m.DueDate,
		Items:               m.Items,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		Status:              trade.PaymentStatus(m.Status),
		CancelReason:        m.CancelReason,
		Notes:               m.Notes,
		Payments:            m.Payments,
		History:             m.History,
	}
	if p.Items == nil {
		p.Items = []trade.PurchaseItem{}
	}
	if p.Payments == nil {
		p.Payments = []trade.Payment{}
	}
	if p.History == nil {
		p.History = []trade.PurchaseHistoryEntry{}
	}
	return p
}

// PurchaseModelFromDomain creates a model from a domain Purchase
func PurchaseModelFromDomain(p *trade.Purchase) *PurchaseModel {
	m := &PurchaseModel{
		Type:         p.Type.String(),
		Number:       p.Number,
		Supplier:     p.Supplier,
		Date:         p.Date,
		DueDate:      p.DueDate,
		TotalAmount:  p.TotalAmount,
		PaidAmount:   p.PaidAmount,
		Status:       p.Status.String(),
		CancelReason: p.CancelReason,
		Notes:        p.Notes,
		Items:        p.Items,
		Payments:     p.Payments,
		History:      p.History,
	}
	// the JSON columns are NOT NULL
	if m.Items == nil {
		m.Items = []trade.PurchaseItem{}
	}
	if m.Payments == nil {
		m.Payments = []trade.Payment{}
	}
	if m.History == nil {
		m.History = []trade.PurchaseHistoryEntry{}
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&InventoryItemModel{},
		&InventoryHistoryModel{},
		&PurchaseModel{},
	}
}
