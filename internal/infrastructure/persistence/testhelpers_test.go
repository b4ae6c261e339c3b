package persistence

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// newTestDatabase opens a private in-memory sqlite database with the ledger tables
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestItem(t *testing.T, tenantID uuid.UUID, name, category string, qty, minQty, cost float64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(tenantID, inventory.ItemAttributes{
		Name:        name,
		Quantity:    decimal.NewFromFloat(qty),
		MinQuantity: decimal.NewFromFloat(minQty),
		Unit:        "kg",
		Category:    category,
		Cost:        decimal.NewFromFloat(cost),
		SKU:         "SKU-" + name,
		Tags:        []string{"dry", "bulk"},
	})
	require.NoError(t, err)
	return item
}

func newTestPurchase(t *testing.T, tenantID uuid.UUID, number, supplier string, price int64) *trade.Purchase {
	t.Helper()
	line, err := trade.NewPurchaseItem("Flour", decimal.NewFromInt(1), "bag", decimal.NewFromInt(price), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	due := time.Now().Add(14 * 24 * time.Hour)
	p, err := trade.NewPurchase(tenantID, trade.PurchaseHeader{
		Type:     trade.PurchaseTypeOrder,
		Number:   number,
		Supplier: supplier,
		Date:     time.Now(),
		DueDate:  &due,
	}, []trade.PurchaseItem{*line}, "alice")
	require.NoError(t, err)
	return p
}
