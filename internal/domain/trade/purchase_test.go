package trade

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func lineOf(t *testing.T, qty, price string) PurchaseItem {
	t.Helper()
	item, err := NewPurchaseItem("Tomatoes", dec(qty), "kg", dec(price), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return *item
}

func createTestPurchase(t *testing.T, total string) *Purchase {
	t.Helper()
	var items []PurchaseItem
	if !dec(total).IsZero() {
		items = append(items, lineOf(t, "1", total))
	}
	p, err := NewPurchase(uuid.New(), PurchaseHeader{
		Type:     PurchaseTypeOrder,
		Number:   "PO-0001",
		Supplier: "Green Farms",
	}, items, "alice")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func pay(t *testing.T, amount string) Payment {
	t.Helper()
	payment, err := NewPayment(time.Now(), dec(amount), "cash", "", "")
	require.NoError(t, err)
	return *payment
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name  string
		paid  string
		total string
		want  PaymentStatus
	}{
		{"nothing paid", "0", "100", PaymentStatusPending},
		{"zero total zero paid", "0", "0", PaymentStatusPending},
		{"negative paid", "-5", "100", PaymentStatusPending},
		{"partial", "75", "100", PaymentStatusPartial},
		{"exact", "100", "100", PaymentStatusPaid},
		{"overpaid", "120", "100", PaymentStatusPaid},
		{"paid against zero total", "1", "0", PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(dec(tt.paid), dec(tt.total)))
		})
	}
}

func TestNewPurchaseItem(t *testing.T) {
	t.Run("computes subtotal and total", func(t *testing.T) {
		item, err := NewPurchaseItem("Beef", dec("4"), "kg", dec("25"), dec("10"), dec("5"))

		require.NoError(t, err)
		assert.True(t, item.Subtotal.Equal(dec("100")))
		assert.True(t, item.Total.Equal(dec("105")))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewPurchaseItem("", dec("1"), "kg", dec("1"), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		_, err = NewPurchaseItem("Beef", dec("0"), "kg", dec("1"), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		_, err = NewPurchaseItem("Beef", dec("1"), "kg", dec("-1"), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		_, err = NewPurchaseItem("Beef", dec("1"), "kg", dec("1"), dec("101"), decimal.Zero)
		assert.Error(t, err)
		_, err = NewPurchaseItem("Beef", dec("1"), "kg", dec("0.00001"), decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rounds totals to the stored scale", func(t *testing.T) {
		item, err := NewPurchaseItem("Salt", dec("3"), "kg", dec("0.3333"), dec("7"), decimal.Zero)

		require.NoError(t, err)
		assert.True(t, item.Subtotal.Equal(dec("0.9999")))
		assert.True(t, item.Total.Equal(dec("1.0699")), item.Total.String())
	})
}

func TestPurchase_AddPayment_RejectsUnstorableScale(t *testing.T) {
	p := createTestPurchase(t, "100")

	_, err := NewPayment(time.Now(), dec("10.00001"), "cash", "", "")
	assert.ErrorIs(t, err, shared.ErrPaymentAmountInvalid)

	err = p.AddPayment(Payment{ID: uuid.New(), Amount: dec("10.00001")}, "")
	assert.ErrorIs(t, err, shared.ErrPaymentAmountInvalid)
	assert.Empty(t, p.Payments)
	assert.True(t, p.PaidAmount.IsZero())
}

func TestNewPurchase(t *testing.T) {
	t.Run("zero total with no payments is pending", func(t *testing.T) {
		p := createTestPurchase(t, "0")

		assert.True(t, p.TotalAmount.IsZero())
		assert.True(t, p.PaidAmount.IsZero())
		assert.Equal(t, PaymentStatusPending, p.Status)
		require.Len(t, p.History, 1)
		assert.Equal(t, HistoryActionCreated, p.History[0].Action)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), PurchaseHeader{Type: "invoice", Number: "X"}, nil, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewPurchase(uuid.New(), PurchaseHeader{Type: PurchaseTypeCreditNote}, nil, "")
		assert.Error(t, err)
	})

	t.Run("rejects due date before date", func(t *testing.T) {
		date := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		due := date.AddDate(0, 0, -1)
		_, err := NewPurchase(uuid.New(), PurchaseHeader{Type: PurchaseTypeOrder, Number: "PO", Date: date, DueDate: &due}, nil, "")
		assert.Error(t, err)
	})
}

func TestPurchase_SetItems(t *testing.T) {
	p := createTestPurchase(t, "0")

	err := p.SetItems([]PurchaseItem{lineOf(t, "2", "10"), lineOf(t, "3", "5.5")}, "bob")

	require.NoError(t, err)
	assert.True(t, p.TotalAmount.Equal(dec("36.5")))

	sum := decimal.Zero
	for _, item := range p.Items {
		sum = sum.Add(item.Total)
	}
	assert.True(t, sum.Equal(p.TotalAmount))
	assert.Equal(t, HistoryActionItemsUpdated, p.History[len(p.History)-1].Action)

	require.NoError(t, p.SetItems(nil, ""))
	assert.True(t, p.TotalAmount.IsZero())
}

func TestPurchase_PaymentSequence(t *testing.T) {
	p := createTestPurchase(t, "100")

	require.NoError(t, p.AddPayment(pay(t, "40"), ""))
	require.NoError(t, p.AddPayment(pay(t, "35"), ""))
	assert.True(t, p.PaidAmount.Equal(dec("75")))
	assert.Equal(t, PaymentStatusPartial, p.Status)

	require.NoError(t, p.AddPayment(pay(t, "25"), ""))
	assert.True(t, p.PaidAmount.Equal(dec("100")))
	assert.Equal(t, PaymentStatusPaid, p.Status)

	removed, err := p.RemovePayment(2, "")
	require.NoError(t, err)
	assert.True(t, removed.Amount.Equal(dec("25")))
	assert.True(t, p.PaidAmount.Equal(dec("75")))
	assert.Equal(t, PaymentStatusPartial, p.Status)
	assert.Len(t, p.Payments, 2)

	actions := make([]HistoryAction, 0, len(p.History))
	for _, h := range p.History {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []HistoryAction{
		HistoryActionCreated,
		HistoryActionPaymentAdded,
		HistoryActionPaymentAdded,
		HistoryActionPaymentAdded,
		HistoryActionPaymentRemoved,
	}, actions)
}

func TestPurchase_AddPayment(t *testing.T) {
	t.Run("rejects non-positive amounts", func(t *testing.T) {
		p := createTestPurchase(t, "100")

		err := p.AddPayment(Payment{Amount: dec("0")}, "")
		assert.ErrorIs(t, err, shared.ErrPaymentAmountInvalid)
		err = p.AddPayment(Payment{Amount: dec("-3")}, "")
		assert.ErrorIs(t, err, shared.ErrPaymentAmountInvalid)
		assert.True(t, shared.IsInvariantViolation(err))
		assert.Empty(t, p.Payments)
		assert.Len(t, p.History, 1)
	})

	t.Run("overpayment is allowed", func(t *testing.T) {
		p := createTestPurchase(t, "100")

		require.NoError(t, p.AddPayment(pay(t, "150"), ""))
		assert.Equal(t, PaymentStatusPaid, p.Status)
		assert.True(t, p.Outstanding().IsZero())
	})

	t.Run("raises status change event", func(t *testing.T) {
		p := createTestPurchase(t, "100")

		require.NoError(t, p.AddPayment(pay(t, "10"), ""))
		events := p.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypePurchasePaymentAdded, events[0].EventType())
		assert.Equal(t, EventTypePurchaseStatusChanged, events[1].EventType())
	})

	t.Run("payment validation at construction", func(t *testing.T) {
		_, err := NewPayment(time.Now(), dec("0"), "card", "", "")
		assert.ErrorIs(t, err, shared.ErrPaymentAmountInvalid)
	})
}

func TestPurchase_RemovePayment_BadIndex(t *testing.T) {
	p := createTestPurchase(t, "100")
	require.NoError(t, p.AddPayment(pay(t, "10"), ""))

	_, err := p.RemovePayment(1, "")
	assert.ErrorIs(t, err, shared.ErrPaymentNotFound)
	_, err = p.RemovePayment(-1, "")
	assert.True(t, shared.IsNotFound(err))
	assert.Len(t, p.Payments, 1)
}

func TestPurchase_CancelAndReactivate(t *testing.T) {
	p := createTestPurchase(t, "100")
	require.NoError(t, p.AddPayment(pay(t, "30"), ""))

	require.NoError(t, p.Cancel("wrong supplier", "alice"))
	assert.Equal(t, PaymentStatusCancelled, p.Status)
	assert.Equal(t, "wrong supplier", p.CancelReason)

	t.Run("cancelled purchase is frozen", func(t *testing.T) {
		assert.ErrorIs(t, p.AddPayment(pay(t, "70"), ""), shared.ErrInvalidState)
		_, err := p.RemovePayment(0, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.ErrorIs(t, p.SetItems(nil, ""), shared.ErrInvalidState)
		assert.ErrorIs(t, p.Cancel("again", ""), shared.ErrInvalidState)
		assert.Equal(t, PaymentStatusCancelled, p.Status)
	})

	require.NoError(t, p.Reactivate("alice"))
	assert.Equal(t, PaymentStatusPartial, p.Status)
	assert.Empty(t, p.CancelReason)
	assert.ErrorIs(t, p.Reactivate(""), shared.ErrInvalidState)

	last := p.History[len(p.History)-1]
	assert.Equal(t, HistoryActionReactivated, last.Action)
	assert.Equal(t, PaymentStatusCancelled, last.PreviousStatus)
	assert.Equal(t, PaymentStatusPartial, last.NewStatus)
}

func TestPurchase_IsOverdue(t *testing.T) {
	p := createTestPurchase(t, "100")
	due := time.Now().Add(-time.Hour)
	p.DueDate = &due

	assert.True(t, p.IsOverdue(time.Now()))
	require.NoError(t, p.AddPayment(pay(t, "100"), ""))
	assert.False(t, p.IsOverdue(time.Now()))
}
