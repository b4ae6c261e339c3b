package trade

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"go.uber.org/zap"
)

// PurchaseStatusChangedHandler logs status transitions of purchases.
// A move back from paid is logged as a warning since it means a payment
// was removed from a settled purchase.
type PurchaseStatusChangedHandler struct {
	logger *zap.Logger
}

// NewPurchaseStatusChangedHandler creates a new handler for purchase status events
func NewPurchaseStatusChangedHandler(logger *zap.Logger) *PurchaseStatusChangedHandler {
	return &PurchaseStatusChangedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseStatusChangedHandler) EventTypes() []string {
	return []string{trade.EventTypePurchaseStatusChanged}
}

// Handle processes a PurchaseStatusChangedEvent
func (h *PurchaseStatusChangedHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*trade.PurchaseStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypePurchaseStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypePurchaseStatusChanged, event.EventType())
	}

	fields := []zap.Field{
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("purchase_id", changed.PurchaseID.String()),
		zap.String("previous_status", changed.PreviousStatus.String()),
		zap.String("new_status", changed.NewStatus.String()),
	}
	if IsSettlementReverted(changed.PreviousStatus, changed.NewStatus) {
		h.logger.Warn("purchase settlement reverted", fields...)
		return nil
	}
	h.logger.Info("purchase status changed", fields...)
	return nil
}

// IsSettlementReverted reports whether a paid purchase went back to an open status
func IsSettlementReverted(previous, next trade.PaymentStatus) bool {
	return previous == trade.PaymentStatusPaid && next.IsOpen()
}

var _ shared.EventHandler = (*PurchaseStatusChangedHandler)(nil)
