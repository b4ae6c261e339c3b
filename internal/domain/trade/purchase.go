package trade

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseType distinguishes orders from supplier notes
type PurchaseType string

const (
	PurchaseTypeOrder      PurchaseType = "purchase_order"
	PurchaseTypeCreditNote PurchaseType = "credit_note"
	PurchaseTypeDebitNote  PurchaseType = "debit_note"
)

// IsValid checks if the purchase type is known
func (t PurchaseType) IsValid() bool {
	switch t {
	case PurchaseTypeOrder, PurchaseTypeCreditNote, PurchaseTypeDebitNote:
		return true
	}
	return false
}

// String returns the string representation
func (t PurchaseType) String() string {
	return string(t)
}

// Purchase is the aggregate root of payment reconciliation.
// TotalAmount is always the sum of item totals, PaidAmount the sum of
// payment amounts and Status is derived from both unless cancelled.
type Purchase struct {
	shared.TenantAggregateRoot
	Type         PurchaseType
	Number       string
	Supplier     string
	Date         time.Time
	DueDate      *time.Time
	Items        []PurchaseItem
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	Status       PaymentStatus
	CancelReason string
	Notes        string
	Payments     []Payment
	History      []PurchaseHistoryEntry
}

// PurchaseHeader carries the caller-supplied header fields
type PurchaseHeader struct {
	Type     PurchaseType
	Number   string
	Supplier string
	Date     time.Time
	DueDate  *time.Time
	Notes    string
}

// NewPurchase creates a purchase with the given lines and no payments
func NewPurchase(tenantID uuid.UUID, header PurchaseHeader, items []PurchaseItem, user string) (*Purchase, error) {
	if !header.Type.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid purchase type")
	}
	number := strings.TrimSpace(header.Number)
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Purchase number cannot be empty")
	}
	if header.DueDate != nil && !header.Date.IsZero() && header.DueDate.Before(header.Date) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Due date cannot be before the purchase date")
	}

	p := &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                header.Type,
		Number:              number,
		Supplier:            header.Supplier,
		Date:                header.Date,
		DueDate:             header.DueDate,
		Notes:               header.Notes,
		Items:               make([]PurchaseItem, 0, len(items)),
		Payments:            make([]Payment, 0),
		History:             make([]PurchaseHistoryEntry, 0, 1),
		PaidAmount:          decimal.Zero,
	}
	if p.Date.IsZero() {
		p.Date = p.CreatedAt
	}
	p.Items = append(p.Items, items...)
	p.recalculateTotal()
	p.Status = DerivePaymentStatus(p.PaidAmount, p.TotalAmount)

	p.appendHistory(HistoryActionCreated, user, nil, "", "")
	p.AddDomainEvent(NewPurchaseCreatedEvent(p))
	return p, nil
}

// SetItems replaces the item lines and recomputes the total
func (p *Purchase) SetItems(items []PurchaseItem, user string) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	previous := p.Status

	p.Items = append(make([]PurchaseItem, 0, len(items)), items...)
	p.recalculateTotal()
	p.Status = DerivePaymentStatus(p.PaidAmount, p.TotalAmount)
	p.Touch()

	total := p.TotalAmount
	p.appendHistory(HistoryActionItemsUpdated, user, &total, "", previous)
	p.raiseStatusChange(previous)
	return nil
}

// AddPayment appends a payment and re-derives the status
func (p *Purchase) AddPayment(payment Payment, user string) error {
	if !payment.Amount.IsPositive() {
		return shared.NewDomainError(shared.CodePaymentAmountInvalid, "Payment amount must be positive")
	}
	if shared.ExceedsScale(payment.Amount) {
		return shared.NewDomainError(shared.CodePaymentAmountInvalid, "Payment amount allows at most 4 decimal places")
	}
	if err := p.ensureActive(); err != nil {
		return err
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	previous := p.Status

	p.Payments = append(p.Payments, payment)
	p.recalculatePaid()
	p.Status = DerivePaymentStatus(p.PaidAmount, p.TotalAmount)
	p.Touch()

	amount := payment.Amount
	p.appendHistory(HistoryActionPaymentAdded, user, &amount, payment.Notes, previous)
	p.AddDomainEvent(NewPurchasePaymentAddedEvent(p, payment))
	p.raiseStatusChange(previous)
	return nil
}

// RemovePayment removes the payment at index and re-derives the status
func (p *Purchase) RemovePayment(index int, user string) (*Payment, error) {
	if index < 0 || index >= len(p.Payments) {
		return nil, shared.NewDomainError(shared.CodePaymentNotFound, "Payment not found")
	}
	if err := p.ensureActive(); err != nil {
		return nil, err
	}
	previous := p.Status

	removed := p.Payments[index]
	p.Payments = append(p.Payments[:index:index], p.Payments[index+1:]...)
	p.recalculatePaid()
	p.Status = DerivePaymentStatus(p.PaidAmount, p.TotalAmount)
	p.Touch()

	amount := removed.Amount
	p.appendHistory(HistoryActionPaymentRemoved, user, &amount, "", previous)
	p.AddDomainEvent(NewPurchasePaymentRemovedEvent(p, removed))
	p.raiseStatusChange(previous)
	return &removed, nil
}

// Cancel freezes the purchase. Item and payment changes are rejected
// until Reactivate is called.
func (p *Purchase) Cancel(reason, user string) error {
	if p.IsCancelled() {
		return shared.NewDomainError(shared.CodeInvalidState, "Purchase is already cancelled")
	}
	previous := p.Status

	p.Status = PaymentStatusCancelled
	p.CancelReason = reason
	p.Touch()

	p.appendHistory(HistoryActionCancelled, user, nil, reason, previous)
	p.raiseStatusChange(previous)
	return nil
}

// Reactivate leaves the cancelled state; the status is derived again
// from the current totals.
func (p *Purchase) Reactivate(user string) error {
	if !p.IsCancelled() {
		return shared.NewDomainError(shared.CodeInvalidState, "Only cancelled purchases can be reactivated")
	}
	previous := p.Status

	p.Status = DerivePaymentStatus(p.PaidAmount, p.TotalAmount)
	p.CancelReason = ""
	p.Touch()

	p.appendHistory(HistoryActionReactivated, user, nil, "", previous)
	p.raiseStatusChange(previous)
	return nil
}

// IsCancelled reports whether the purchase is frozen
func (p *Purchase) IsCancelled() bool {
	return p.Status == PaymentStatusCancelled
}

// Outstanding returns the amount still owed, never negative
func (p *Purchase) Outstanding() decimal.Decimal {
	rest := p.TotalAmount.Sub(p.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsOverdue reports whether an open purchase is past its due date
func (p *Purchase) IsOverdue(now time.Time) bool {
	return p.DueDate != nil && p.Status.IsOpen() && now.After(*p.DueDate)
}

func (p *Purchase) ensureActive() error {
	if p.IsCancelled() {
		return shared.NewDomainError(shared.CodeInvalidState, "Purchase is cancelled; reactivate it first")
	}
	return nil
}

func (p *Purchase) recalculateTotal() {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Total)
	}
	p.TotalAmount = total
}

func (p *Purchase) recalculatePaid() {
	paid := decimal.Zero
	for _, pay := range p.Payments {
		paid = paid.Add(pay.Amount)
	}
	p.PaidAmount = paid
}

func (p *Purchase) appendHistory(action HistoryAction, user string, amount *decimal.Decimal, notes string, previous PaymentStatus) {
	p.History = append(p.History, PurchaseHistoryEntry{
		ID:             uuid.New(),
		Timestamp:      p.UpdatedAt,
		Action:         action,
		User:           user,
		Amount:         amount,
		Notes:          notes,
		PreviousStatus: previous,
		NewStatus:      p.Status,
	})
}

func (p *Purchase) raiseStatusChange(previous PaymentStatus) {
	if previous != p.Status {
		p.AddDomainEvent(NewPurchaseStatusChangedEvent(p, previous))
	}
}
