package trade

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRepository defines the interface for purchase persistence.
// Items, payments and history are part of the aggregate and are saved with it.
type PurchaseRepository interface {
	// FindByIDForTenant finds a purchase by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)

	// FindByIDForUpdate loads a purchase and holds a row lock until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)

	// FindAllForTenant returns one page of purchases
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, error)

	// CountForTenant counts purchases matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ListAllForTenant returns every purchase of the tenant, unpaginated
	ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Purchase, error)

	// Create inserts a new purchase
	Create(ctx context.Context, purchase *Purchase) error

	// SaveWithLock updates a purchase if its stored version still matches
	SaveWithLock(ctx context.Context, purchase *Purchase) error

	// DeleteForTenant deletes a purchase within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
