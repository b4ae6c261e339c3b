package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM.
// Lines, payments and the history log live in JSON columns of the purchase row.
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByIDForTenant finds a purchase by ID within a tenant
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError("find purchase", err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a purchase and locks its row for the rest of the transaction
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError("lock purchase", err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns one page of purchases
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	var rows []models.PurchaseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPagination(query, filter, PurchaseSortFields, "date")

	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError("list purchases", err)
	}
	return toPurchases(rows), nil
}

// CountForTenant counts purchases matching the filter
func (r *GormPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PurchaseModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError("count purchases", err)
	}
	return count, nil
}

// ListAllForTenant returns every purchase of the tenant, newest first
func (r *GormPurchaseRepository) ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]trade.Purchase, error) {
	var rows []models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError("scan purchases", err)
	}
	return toPurchases(rows), nil
}

// Create inserts a new purchase
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	if err := r.db.WithContext(ctx).Create(models.PurchaseModelFromDomain(purchase)).Error; err != nil {
		return translateError("create purchase", err)
	}
	return nil
}

var purchaseMutableColumns = []string{
	"type", "number", "supplier", "date", "due_date", "total_amount", "paid_amount",
	"status", "cancel_reason", "notes", "items", "payments", "history", "updated_at", "version",
}

// SaveWithLock writes the purchase if the stored version equals purchase.Version
// and bumps the version on success
func (r *GormPurchaseRepository) SaveWithLock(ctx context.Context, purchase *trade.Purchase) error {
	model := models.PurchaseModelFromDomain(purchase)
	next := purchase.Version + 1
	model.Version = next

	result := r.db.WithContext(ctx).
		Model(&models.PurchaseModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", purchase.TenantID, purchase.ID, purchase.Version).
		Select(purchaseMutableColumns).
		Updates(model)
	if result.Error != nil {
		return translateError("save purchase", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	purchase.Version = next
	return nil
}

// DeleteForTenant deletes a purchase within a tenant
func (r *GormPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PurchaseModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return translateError("delete purchase", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search on number and supplier plus the filter keys
// type, status and supplier
func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(number) LIKE ? OR LOWER(supplier) LIKE ?", p, p)
	}
	if t, ok := filter.Filters["type"].(string); ok && t != "" {
		query = query.Where("type = ?", t)
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if supplier, ok := filter.Filters["supplier"].(string); ok && supplier != "" {
		query = query.Where("supplier = ?", supplier)
	}
	return query
}

func toPurchases(rows []models.PurchaseModel) []trade.Purchase {
	purchases := make([]trade.Purchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
