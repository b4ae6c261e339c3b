package trade

import (
	"context"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPurchaseStatusChangedHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewPurchaseStatusChangedHandler(zap.New(core))
	p := createTestPurchase(t, uuid.New(), 100)

	p.Status = trade.PaymentStatusPartial
	assert.NoError(t, handler.Handle(context.Background(), trade.NewPurchaseStatusChangedEvent(p, trade.PaymentStatusPending)))

	p.Status = trade.PaymentStatusPartial
	assert.NoError(t, handler.Handle(context.Background(), trade.NewPurchaseStatusChangedEvent(p, trade.PaymentStatusPaid)))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "purchase settlement reverted", entries[1].Message)
	}
}

func TestPurchaseStatusChangedHandler_WrongEvent(t *testing.T) {
	handler := NewPurchaseStatusChangedHandler(zap.NewNop())
	other := &trade.PurchaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(trade.EventTypePurchaseCreated, trade.AggregateTypePurchase, uuid.New(), uuid.New()),
	}
	assert.Error(t, handler.Handle(context.Background(), other))
	assert.Equal(t, []string{trade.EventTypePurchaseStatusChanged}, handler.EventTypes())
}

func TestIsSettlementReverted(t *testing.T) {
	assert.True(t, IsSettlementReverted(trade.PaymentStatusPaid, trade.PaymentStatusPartial))
	assert.True(t, IsSettlementReverted(trade.PaymentStatusPaid, trade.PaymentStatusPending))
	assert.False(t, IsSettlementReverted(trade.PaymentStatusPaid, trade.PaymentStatusCancelled))
	assert.False(t, IsSettlementReverted(trade.PaymentStatusPartial, trade.PaymentStatusPaid))
}
