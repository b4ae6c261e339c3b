package trade

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchase = "Purchase"

// Event type constants
const (
	EventTypePurchaseCreated        = "PurchaseCreated"
	EventTypePurchasePaymentAdded   = "PurchasePaymentAdded"
	EventTypePurchasePaymentRemoved = "PurchasePaymentRemoved"
	EventTypePurchaseStatusChanged  = "PurchaseStatusChanged"
)

// PurchaseCreatedEvent is raised when a purchase is recorded
type PurchaseCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseID  uuid.UUID       `json:"purchase_id"`
	Number      string          `json:"number"`
	Type        PurchaseType    `json:"type"`
	Supplier    string          `json:"supplier"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseCreatedEvent creates a new PurchaseCreatedEvent
func NewPurchaseCreatedEvent(p *Purchase) *PurchaseCreatedEvent {
	return &PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseID:      p.ID,
		Number:          p.Number,
		Type:            p.Type,
		Supplier:        p.Supplier,
		TotalAmount:     p.TotalAmount,
	}
}

// PurchasePaymentAddedEvent is raised after a payment is appended
type PurchasePaymentAddedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID       `json:"purchase_id"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     PaymentStatus   `json:"status"`
}

// NewPurchasePaymentAddedEvent creates a new PurchasePaymentAddedEvent
func NewPurchasePaymentAddedEvent(p *Purchase, payment Payment) *PurchasePaymentAddedEvent {
	return &PurchasePaymentAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchasePaymentAdded, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseID:      p.ID,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		PaidAmount:      p.PaidAmount,
		Status:          p.Status,
	}
}

// PurchasePaymentRemovedEvent is raised after a payment is removed
type PurchasePaymentRemovedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID       `json:"purchase_id"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     PaymentStatus   `json:"status"`
}

// NewPurchasePaymentRemovedEvent creates a new PurchasePaymentRemovedEvent
func NewPurchasePaymentRemovedEvent(p *Purchase, payment Payment) *PurchasePaymentRemovedEvent {
	return &PurchasePaymentRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchasePaymentRemoved, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseID:      p.ID,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		PaidAmount:      p.PaidAmount,
		Status:          p.Status,
	}
}

// PurchaseStatusChangedEvent is raised whenever the derived or manual status moves
type PurchaseStatusChangedEvent struct {
	shared.BaseDomainEvent
	PurchaseID     uuid.UUID     `json:"purchase_id"`
	PreviousStatus PaymentStatus `json:"previous_status"`
	NewStatus      PaymentStatus `json:"new_status"`
}

// NewPurchaseStatusChangedEvent creates a new PurchaseStatusChangedEvent
func NewPurchaseStatusChangedEvent(p *Purchase, previous PaymentStatus) *PurchaseStatusChangedEvent {
	return &PurchaseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseStatusChanged, AggregateTypePurchase, p.ID, p.TenantID),
		PurchaseID:      p.ID,
		PreviousStatus:  previous,
		NewStatus:       p.Status,
	}
}
