package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPurchaseRepository_RoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormPurchaseRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	p := newTestPurchase(t, tenantID, "PO-001", "Acme", 100)
	pay, err := trade.NewPayment(time.Now(), decimal.NewFromInt(40), "cash", "R1", "")
	require.NoError(t, err)
	require.NoError(t, p.AddPayment(*pay, "alice"))
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "PO-001", found.Number)
	assert.Equal(t, trade.PaymentStatusPartial, found.Status)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, found.PaidAmount.Equal(decimal.NewFromInt(40)))
	require.Len(t, found.Items, 1)
	assert.True(t, found.Items[0].Total.Equal(decimal.NewFromInt(100)))
	require.Len(t, found.Payments, 1)
	assert.Equal(t, "R1", found.Payments[0].Reference)
	require.Len(t, found.History, 2)
	assert.Equal(t, trade.HistoryActionPaymentAdded, found.History[1].Action)
}

func TestGormPurchaseRepository_SaveWithLock(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormPurchaseRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	p := newTestPurchase(t, tenantID, "PO-002", "Acme", 60)
	require.NoError(t, repo.Create(ctx, p))

	a, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	b, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)

	payA, _ := trade.NewPayment(time.Time{}, decimal.NewFromInt(35), "bank", "", "")
	require.NoError(t, a.AddPayment(*payA, "alice"))
	require.NoError(t, repo.SaveWithLock(ctx, a))

	payB, _ := trade.NewPayment(time.Time{}, decimal.NewFromInt(25), "bank", "", "")
	require.NoError(t, b.AddPayment(*payB, "bob"))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, b), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 1)
	assert.True(t, stored.PaidAmount.Equal(decimal.NewFromInt(35)))
	assert.Equal(t, 2, stored.Version)
}

func TestGormPurchaseRepository_Filters(t *testing.T) {
	db := newTestDatabase(t)
	repo := NewGormPurchaseRepository(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	paid := newTestPurchase(t, tenantID, "PO-100", "Acme", 10)
	pay, _ := trade.NewPayment(time.Time{}, decimal.NewFromInt(10), "cash", "", "")
	require.NoError(t, paid.AddPayment(*pay, "alice"))
	require.NoError(t, repo.Create(ctx, paid))
	require.NoError(t, repo.Create(ctx, newTestPurchase(t, tenantID, "PO-101", "Globex", 20)))
	require.NoError(t, repo.Create(ctx, newTestPurchase(t, tenantID, "PO-102", "Acme", 30)))

	byStatus, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Filters: map[string]interface{}{"status": "paid"}})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "PO-100", byStatus[0].Number)

	count, err := repo.CountForTenant(ctx, tenantID, shared.Filter{Filters: map[string]interface{}{"supplier": "Acme"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	search, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "glob"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "PO-101", search[0].Number)

	all, err := repo.ListAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, paid.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, paid.ID), shared.ErrNotFound)
}

func TestGormPurchaseTransactionScope_Commits(t *testing.T) {
	db := newTestDatabase(t)
	scope := NewGormPurchaseTransactionScope(db.DB)
	ctx := context.Background()
	tenantID := uuid.New()

	p := newTestPurchase(t, tenantID, "PO-200", "Acme", 50)
	require.NoError(t, NewGormPurchaseRepository(db.DB).Create(ctx, p))

	err := scope.Execute(ctx, func(repo trade.PurchaseRepository) error {
		locked, err := repo.FindByIDForUpdate(ctx, tenantID, p.ID)
		if err != nil {
			return err
		}
		if err := locked.Cancel("duplicate", "alice"); err != nil {
			return err
		}
		return repo.SaveWithLock(ctx, locked)
	})
	require.NoError(t, err)

	stored, err := NewGormPurchaseRepository(db.DB).FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCancelled())
	assert.Equal(t, "duplicate", stored.CancelReason)
}
