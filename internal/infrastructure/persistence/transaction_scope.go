package persistence

import (
	"context"

	appinv "github.com/erp/backoffice/internal/application/inventory"
	apptrade "github.com/erp/backoffice/internal/application/trade"
	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope runs inventory mutations in one GORM transaction,
// so the item write and its history record commit or roll back together
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// Any error returned by fn rolls the transaction back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormInventoryRepositories) HistoryRepo() inventory.HistoryRepository {
	return NewGormHistoryRepository(r.tx)
}

// GormPurchaseTransactionScope runs purchase mutations in one GORM transaction
type GormPurchaseTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchaseTransactionScope creates a new GormPurchaseTransactionScope
func NewGormPurchaseTransactionScope(db *gorm.DB) *GormPurchaseTransactionScope {
	return &GormPurchaseTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormPurchaseTransactionScope) Execute(ctx context.Context, fn func(repo trade.PurchaseRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormPurchaseRepository(tx))
	})
}

var (
	_ appinv.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
	_ apptrade.TransactionScope        = (*GormPurchaseTransactionScope)(nil)
)
