package inventory

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlert represents a stock level alert
type StockAlert struct {
	TenantID        string `json:"tenant_id"`
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	CurrentQuantity string `json:"current_quantity"`
	MinimumQuantity string `json:"minimum_quantity"`
	AlertType       string `json:"alert_type"`
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockLowHandler reacts to StockLow events
type StockLowHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockLowHandler creates a new handler for stock low events
func NewStockLowHandler(logger *zap.Logger) *StockLowHandler {
	return &StockLowHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockLowHandler) WithNotifier(notifier StockAlertNotifier) *StockLowHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLow}
}

// Handle processes a StockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.StockLowEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLow),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLow, event.EventType())
	}

	alertType := AlertTypeLowStock
	if lowEvent.Quantity.IsZero() {
		alertType = AlertTypeOutOfStock
	}

	h.logger.Warn("stock at or below minimum",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("item_id", lowEvent.ItemID.String()),
		zap.String("name", lowEvent.Name),
		zap.String("quantity", lowEvent.Quantity.String()),
		zap.String("min_quantity", lowEvent.MinQuantity.String()),
		zap.String("alert_type", alertType),
	)

	if h.notifier == nil {
		return nil
	}

	alert := StockAlert{
		TenantID:        event.TenantID().String(),
		ItemID:          lowEvent.ItemID.String(),
		Name:            lowEvent.Name,
		CurrentQuantity: lowEvent.Quantity.String(),
		MinimumQuantity: lowEvent.MinQuantity.String(),
		AlertType:       alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// notification failure does not fail event handling
		h.logger.Error("failed to send stock alert notification",
			zap.String("item_id", alert.ItemID),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockLowHandler)(nil)
