package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the reconciliation state of a purchase
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PaymentStatus) String() string {
	return string(s)
}

// IsOpen reports whether money is still expected
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusPending || s == PaymentStatusPartial
}

// DerivePaymentStatus maps the running totals to a status.
// It is stateless: removing payments can move the status backwards.
// Overpayment yields paid.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return PaymentStatusPending
	case paid.LessThan(total):
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

// Payment is one settlement entry of a purchase
type Payment struct {
	ID        uuid.UUID       `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes,omitempty"`
}

// NewPayment creates a payment; the amount must be positive
func NewPayment(date time.Time, amount decimal.Decimal, method, reference, notes string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodePaymentAmountInvalid, "Payment amount must be positive")
	}
	if shared.ExceedsScale(amount) {
		return nil, shared.NewDomainError(shared.CodePaymentAmountInvalid, "Payment amount allows at most 4 decimal places")
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Payment{
		ID:        uuid.New(),
		Date:      date,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		Notes:     notes,
	}, nil
}
