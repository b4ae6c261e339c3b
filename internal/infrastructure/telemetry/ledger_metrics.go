package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics counts ledger mutations. A nil *LedgerMetrics records nothing.
type LedgerMetrics struct {
	stockAdjustments    *Counter
	payments            *Counter
	invariantRejections *Counter
}

// NewLedgerMetrics creates the ledger counters on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	adjustments, err := NewCounter(meter, "ledger.stock_adjustments", "Stock adjustments applied", "{adjustment}")
	if err != nil {
		return nil, err
	}
	payments, err := NewCounter(meter, "ledger.payments", "Payments added to or removed from purchases", "{payment}")
	if err != nil {
		return nil, err
	}
	rejections, err := NewCounter(meter, "ledger.invariant_rejections", "Mutations rejected by a ledger invariant", "{rejection}")
	if err != nil {
		return nil, err
	}
	return &LedgerMetrics{
		stockAdjustments:    adjustments,
		payments:            payments,
		invariantRejections: rejections,
	}, nil
}

// RecordStockAdjustment counts an applied adjustment, split by direction
func (m *LedgerMetrics) RecordStockAdjustment(ctx context.Context, tenantID uuid.UUID, delta decimal.Decimal) {
	if m == nil {
		return
	}
	direction := "in"
	if delta.IsNegative() {
		direction = "out"
	}
	m.stockAdjustments.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrDirection.String(direction))
}

// RecordPayment counts a payment change; action is "added" or "removed"
func (m *LedgerMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, action string) {
	if m == nil {
		return
	}
	m.payments.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrPaymentAction.String(action))
}

// RecordRejection counts a mutation refused with the given error code
func (m *LedgerMetrics) RecordRejection(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.invariantRejections.Inc(ctx, AttrErrorCode.String(code))
}
