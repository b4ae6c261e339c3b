// Package lock serializes mutations of one record across requests and,
// with the redis driver, across processes.
package lock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Record kinds used in lock keys
const (
	KindInventoryItem = "item"
	KindPurchase      = "purchase"
)

// Lock is a held record lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out exclusive locks by key. Obtain gives up with
// shared.ErrConcurrencyConflict when the lock stays busy past the
// configured wait time.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

// Key builds the lock key of a tenant record
func Key(kind string, tenantID, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", kind, tenantID, id)
}
