package inventory

import (
	"context"

	"github.com/erp/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock ledger repositories.
// The item write and its history record run in the same database transaction
// and are committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories bound to one transaction
type TransactionalRepositories interface {
	// ItemRepo returns the inventory item repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// HistoryRepo returns the history repository scoped to the current transaction
	HistoryRepo() inventory.HistoryRepository
}

// NoOpTransactionScope runs the function against plain repositories.
// It is used by tests and by stores without transaction support.
type NoOpTransactionScope struct {
	itemRepo    inventory.InventoryItemRepository
	historyRepo inventory.HistoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	historyRepo inventory.HistoryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// HistoryRepo returns the history repository.
func (s *NoOpTransactionScope) HistoryRepo() inventory.HistoryRepository {
	return s.historyRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
