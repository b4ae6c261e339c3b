package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHistoryRepository implements inventory.HistoryRepository using GORM.
// Records are only ever inserted.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append stores a new history record
func (r *GormHistoryRepository) Append(ctx context.Context, record *inventory.HistoryRecord) error {
	if err := r.db.WithContext(ctx).Create(models.InventoryHistoryModelFromDomain(record)).Error; err != nil {
		return translateError("append inventory history", err)
	}
	return nil
}

// FindByItem returns the history of an item, newest first
func (r *GormHistoryRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]inventory.HistoryRecord, error) {
	var rows []models.InventoryHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError("read inventory history", err)
	}

	records := make([]inventory.HistoryRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Ensure GormHistoryRepository implements HistoryRepository
var _ inventory.HistoryRepository = (*GormHistoryRepository)(nil)
