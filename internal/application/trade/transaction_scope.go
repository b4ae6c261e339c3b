package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/trade"
)

// TransactionScope runs a purchase read-modify-write in one database transaction.
// Items, payments and the embedded history are part of the same row, so a
// single repository is enough.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repo trade.PurchaseRepository) error) error
}

// NoOpTransactionScope hands the plain repository to fn
type NoOpTransactionScope struct {
	repo trade.PurchaseRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repo trade.PurchaseRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{repo: repo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repo trade.PurchaseRepository) error) error {
	return fn(s.repo)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
