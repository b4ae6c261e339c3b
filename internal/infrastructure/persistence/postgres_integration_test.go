//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	appinv "github.com/erp/backoffice/internal/application/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDB starts a postgres container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_ConcurrentAdjustmentsSerialize(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenantID := uuid.New()

	item := newTestItem(t, tenantID, "Flour", "baking", 10, 2, 1)
	require.NoError(t, NewGormInventoryItemRepository(db).Create(ctx, item))

	scope := NewGormInventoryTransactionScope(db)
	const workers = 10

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
				locked, err := repos.ItemRepo().FindByIDForUpdate(ctx, tenantID, item.ID)
				if err != nil {
					return err
				}
				rec, err := locked.Adjust(decimal.NewFromInt(-1), "sale", "", "worker")
				if err != nil {
					return err
				}
				if err := repos.ItemRepo().SaveWithLock(ctx, locked); err != nil {
					return err
				}
				return repos.HistoryRepo().Append(ctx, rec)
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	stored, err := NewGormInventoryItemRepository(db).FindByIDForTenant(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.IsZero())

	records, err := NewGormHistoryRepository(db).FindByItem(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.Len(t, records, workers)

	// one more sale must fail and leave no trace
	err = scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		locked, err := repos.ItemRepo().FindByIDForUpdate(ctx, tenantID, item.ID)
		if err != nil {
			return err
		}
		_, err = locked.Adjust(decimal.NewFromInt(-1), "sale", "", "worker")
		return err
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestPostgres_PurchaseJSONColumns(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	repo := NewGormPurchaseRepository(db)
	tenantID := uuid.New()

	p := newTestPurchase(t, tenantID, "PO-9", "Acme", 100)
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 1)
	assert.Empty(t, found.Payments)
	assert.Len(t, found.History, 1)
}
