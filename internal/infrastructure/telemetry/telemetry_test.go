package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDisabledProvidersAreNoOps(t *testing.T) {
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestLedgerMetrics_Counts(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	lm, err := NewLedgerMetrics(mp.Meter("ledger"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	lm.RecordStockAdjustment(ctx, tenantID, decimal.NewFromInt(5))
	lm.RecordStockAdjustment(ctx, tenantID, decimal.NewFromInt(-2))
	lm.RecordPayment(ctx, tenantID, "added")
	lm.RecordRejection(ctx, "INSUFFICIENT_STOCK")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), totals["ledger.stock_adjustments"])
	assert.Equal(t, int64(1), totals["ledger.payments"])
	assert.Equal(t, int64(1), totals["ledger.invariant_rejections"])
}

func TestLedgerMetrics_NilIsSafe(t *testing.T) {
	var lm *LedgerMetrics
	assert.NotPanics(t, func() {
		lm.RecordStockAdjustment(context.Background(), uuid.New(), decimal.NewFromInt(1))
		lm.RecordPayment(context.Background(), uuid.New(), "removed")
		lm.RecordRejection(context.Background(), "INVALID_STATE")
	})
}

func TestDBTracingPlugin_Register(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	disabled := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, disabled.Register(db))

	enabled := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	require.NoError(t, enabled.Register(db))

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
