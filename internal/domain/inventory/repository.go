package inventory

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByIDForTenant finds an item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate loads an item and holds a row lock until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindAllForTenant returns one page of items
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// CountForTenant counts items matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ListAllForTenant returns every item of the tenant, unpaginated
	ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]InventoryItem, error)

	// Create inserts a new item
	Create(ctx context.Context, item *InventoryItem) error

	// SaveWithLock updates an item if its stored version still matches
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// DeleteForTenant deletes an item within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// HistoryRepository stores the append-only item audit trail
type HistoryRepository interface {
	// Append stores a new record
	Append(ctx context.Context, record *HistoryRecord) error

	// FindByItem returns the records of an item, newest first
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]HistoryRecord, error)
}
