package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryAction names a purchase mutation
type HistoryAction string

const (
	HistoryActionCreated        HistoryAction = "created"
	HistoryActionItemsUpdated   HistoryAction = "items_updated"
	HistoryActionPaymentAdded   HistoryAction = "payment_added"
	HistoryActionPaymentRemoved HistoryAction = "payment_removed"
	HistoryActionCancelled      HistoryAction = "cancelled"
	HistoryActionReactivated    HistoryAction = "reactivated"
)

// PurchaseHistoryEntry is one append-only entry of the purchase log.
// It is stored with the purchase row and committed together with it.
type PurchaseHistoryEntry struct {
	ID             uuid.UUID        `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	Action         HistoryAction    `json:"action"`
	User           string           `json:"user,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	PreviousStatus PaymentStatus    `json:"previous_status,omitempty"`
	NewStatus      PaymentStatus    `json:"new_status"`
}
