package inventory

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/lock"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService runs the stock ledger operations.
// Every read-modify-write holds the record lock and one database
// transaction that covers the item write and its history record.
type InventoryService struct {
	itemRepo       inventory.InventoryItemRepository
	historyRepo    inventory.HistoryRepository
	txScope        TransactionScope
	locker         lock.Locker
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LedgerMetrics
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	historyRepo inventory.HistoryRepository,
	txScope TransactionScope,
	locker lock.Locker,
) *InventoryService {
	return &InventoryService{
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		txScope:     txScope,
		locker:      locker,
		logger:      zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLedgerMetrics sets the ledger counters
func (s *InventoryService) SetLedgerMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// SetLogger sets the logger
func (s *InventoryService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// publishDomainEvents publishes all domain events from the inventory item
func (s *InventoryService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	events := item.GetDomainEvents()
	item.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish inventory events",
			zap.String("item_id", item.ID.String()),
			zap.Error(err),
		)
	}
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// List retrieves a list of inventory items with filtering and pagination
func (s *InventoryService) List(ctx context.Context, tenantID uuid.UUID, filter InventoryListFilter) ([]InventoryItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.LowStock != nil && *filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	items, err := s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryItemResponses(items), total, nil
}

// Create adds an item to the ledger together with its "create" history record
func (s *InventoryService) Create(ctx context.Context, tenantID uuid.UUID, user string, req CreateItemRequest) (*InventoryItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := inventory.NewInventoryItem(tenantID, req.ToAttributes())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ItemRepo().Create(ctx, item); err != nil {
			return err
		}
		return repos.HistoryRepo().Append(ctx, item.CreationRecord(user))
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Update applies a partial update. A history record is written only when
// at least one field actually changed.
func (s *InventoryService) Update(ctx context.Context, tenantID, itemID uuid.UUID, user string, req UpdateItemRequest) (*InventoryItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	changes := req.ToChanges()

	item, err := s.mutate(ctx, tenantID, itemID, func(item *inventory.InventoryItem) (*inventory.HistoryRecord, error) {
		return item.ApplyChanges(changes, user)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Adjust applies a signed quantity delta. A delta that would leave the
// quantity negative is rejected with INSUFFICIENT_STOCK and nothing is written.
func (s *InventoryService) Adjust(ctx context.Context, tenantID, itemID uuid.UUID, user string, req AdjustStockRequest) (*InventoryItemResponse, error) {
	item, err := s.mutate(ctx, tenantID, itemID, func(item *inventory.InventoryItem) (*inventory.HistoryRecord, error) {
		return item.Adjust(req.Delta, req.Reason, req.Notes, user)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStockAdjustment(ctx, tenantID, req.Delta)
	s.publishDomainEvents(ctx, item)
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Delete removes an item. Its history records are kept.
func (s *InventoryService) Delete(ctx context.Context, tenantID, itemID uuid.UUID) error {
	held, err := s.locker.Obtain(ctx, lock.Key(lock.KindInventoryItem, tenantID, itemID))
	if err != nil {
		return err
	}
	defer s.release(ctx, held)

	return s.itemRepo.DeleteForTenant(ctx, tenantID, itemID)
}

// GetHistory returns the audit trail of an item, newest first.
// It also answers for items that have been deleted.
func (s *InventoryService) GetHistory(ctx context.Context, tenantID, itemID uuid.UUID) ([]HistoryRecordResponse, error) {
	records, err := s.historyRepo.FindByItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	return ToHistoryRecordResponses(records), nil
}

// mutate runs one read-modify-write of an item under its record lock.
// fn may return a nil record when there is nothing to log.
func (s *InventoryService) mutate(
	ctx context.Context,
	tenantID, itemID uuid.UUID,
	fn func(item *inventory.InventoryItem) (*inventory.HistoryRecord, error),
) (*inventory.InventoryItem, error) {
	held, err := s.locker.Obtain(ctx, lock.Key(lock.KindInventoryItem, tenantID, itemID))
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, err
	}
	defer s.release(ctx, held)

	var result *inventory.InventoryItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		record, err := fn(item)
		if err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if record != nil {
			if err := repos.HistoryRepo().Append(ctx, record); err != nil {
				return err
			}
		}
		result = item
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, err
	}
	return result, nil
}

func (s *InventoryService) release(ctx context.Context, held lock.Lock) {
	if err := held.Release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to release item lock", zap.Error(err))
	}
}

func (s *InventoryService) recordRejection(ctx context.Context, err error) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return
	}
	if shared.IsInvariantViolation(err) || de.Code == shared.CodeConcurrencyConflict {
		s.metrics.RecordRejection(ctx, de.Code)
	}
}
