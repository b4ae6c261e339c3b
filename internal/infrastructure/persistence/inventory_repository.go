package persistence

import (
	"context"
	"fmt"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByIDForTenant finds an item by ID within a tenant
func (r *GormInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError("find inventory item", err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an item and locks its row for the rest of the transaction
func (r *GormInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError("lock inventory item", err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns one page of items
func (r *GormInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var rows []models.InventoryItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(query, filter, InventoryItemSortFields, "name")

	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError("list inventory items", err)
	}
	return toInventoryItems(rows), nil
}

// CountForTenant counts items matching the filter
func (r *GormInventoryItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError("count inventory items", err)
	}
	return count, nil
}

// ListAllForTenant returns every item of the tenant ordered by name
func (r *GormInventoryItemRepository) ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error) {
	var rows []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError("scan inventory items", err)
	}
	return toInventoryItems(rows), nil
}

// Create inserts a new item
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("create inventory item", err)
	}
	return nil
}

// SaveWithLock writes the item if the stored version equals item.Version
// and bumps the version on success
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	model := models.InventoryItemModelFromDomain(item)
	next := item.Version + 1

	model.Version = next

	result := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", item.TenantID, item.ID, item.Version).
		Select(inventoryItemMutableColumns).
		Updates(model)
	if result.Error != nil {
		return translateError("save inventory item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	item.Version = next
	return nil
}

var inventoryItemMutableColumns = []string{
	"name", "quantity", "min_quantity", "unit", "category", "cost", "supplier",
	"expiry_date", "location", "sku", "notes", "tags", "last_updated", "updated_at", "version",
}

// DeleteForTenant deletes an item within a tenant; its history is kept
func (r *GormInventoryItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItemModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return translateError("delete inventory item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search and the supported filter keys:
// category (string) and low_stock (bool)
func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", p, p)
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	if low, ok := filter.Filters["low_stock"].(bool); ok && low {
		query = query.Where("quantity <= min_quantity")
	}
	return query
}

func applyPagination(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(fmt.Sprintf("%s %s", field, ValidateSortOrder(filter.OrderDir)))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func toInventoryItems(rows []models.InventoryItemModel) []inventory.InventoryItem {
	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items
}

// Ensure GormInventoryItemRepository implements InventoryItemRepository
var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
