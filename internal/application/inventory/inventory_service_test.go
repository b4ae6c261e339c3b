package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/lock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]shared.DomainEvent, 0),
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockEventPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// MockInventoryItemRepository is a mock implementation of InventoryItemRepository
type MockInventoryItemRepository struct {
	mock.Mock
}

func (m *MockInventoryItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryItemRepository) ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, record *inventory.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]inventory.HistoryRecord, error) {
	args := m.Called(ctx, tenantID, itemID)
	return args.Get(0).([]inventory.HistoryRecord), args.Error(1)
}

type serviceFixture struct {
	service     *InventoryService
	itemRepo    *MockInventoryItemRepository
	historyRepo *MockHistoryRepository
	publisher   *MockEventPublisher
	locker      *lock.MemoryLocker
}

func newServiceFixture() *serviceFixture {
	itemRepo := new(MockInventoryItemRepository)
	historyRepo := new(MockHistoryRepository)
	publisher := NewMockEventPublisher()
	locker := lock.NewMemoryLocker(50 * time.Millisecond)

	svc := NewInventoryService(itemRepo, historyRepo, NewNoOpTransactionScope(itemRepo, historyRepo), locker)
	svc.SetEventPublisher(publisher)

	return &serviceFixture{
		service:     svc,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
		locker:      locker,
	}
}

func createTestItem(tenantID uuid.UUID, qty, minQty, cost int64) *inventory.InventoryItem {
	item, _ := inventory.NewInventoryItem(tenantID, inventory.ItemAttributes{
		Name:        "Flour",
		Quantity:    decimal.NewFromInt(qty),
		MinQuantity: decimal.NewFromInt(minQty),
		Unit:        "kg",
		Category:    "Dry goods",
		Cost:        decimal.NewFromInt(cost),
	})
	item.ClearDomainEvents()
	return item
}

func TestInventoryService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates item with create record", func(t *testing.T) {
		f := newServiceFixture()
		f.itemRepo.On("Create", ctx, mock.AnythingOfType("*inventory.InventoryItem")).Return(nil)
		f.historyRepo.On("Append", ctx, mock.MatchedBy(func(r *inventory.HistoryRecord) bool {
			return r.Type == inventory.HistoryTypeCreate && r.QuantityChange != nil && r.QuantityChange.Equal(decimal.NewFromInt(12))
		})).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, "alice", CreateItemRequest{
			Name:        "Rice",
			Quantity:    decimal.NewFromInt(12),
			MinQuantity: decimal.NewFromInt(4),
			Cost:        decimal.NewFromFloat(2.5),
			Tags:        []string{"dry", "dry", " bulk "},
		})
		require.NoError(t, err)
		assert.Equal(t, "Rice", resp.Name)
		assert.Equal(t, []string{"bulk", "dry"}, resp.Tags)
		assert.True(t, resp.StockValue.Equal(decimal.NewFromInt(30)))
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeInventoryItemCreated), 1)
		f.itemRepo.AssertExpectations(t)
		f.historyRepo.AssertExpectations(t)
	})

	t.Run("accepts zero quantity", func(t *testing.T) {
		f := newServiceFixture()
		f.itemRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.historyRepo.On("Append", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, "", CreateItemRequest{Name: "Salt"})
		require.NoError(t, err)
		assert.True(t, resp.Quantity.IsZero())
		assert.True(t, resp.IsLowStock)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.Create(ctx, tenantID, "", CreateItemRequest{Name: "Salt", Cost: decimal.NewFromInt(-1)})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeInvalidInput, de.Code)
		f.itemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned and nothing is published", func(t *testing.T) {
		f := newServiceFixture()
		f.itemRepo.On("Create", ctx, mock.Anything).Return(shared.NewStorageError("create item", errors.New("disk full")))

		_, err := f.service.Create(ctx, tenantID, "", CreateItemRequest{Name: "Salt"})
		assert.True(t, shared.IsStorageFailure(err))
		assert.Zero(t, f.publisher.Count())
		f.historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_Adjust(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("restock adds quantity and one adjustment record", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 10, 2, 4)
		var appended []*inventory.HistoryRecord

		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		f.historyRepo.On("Append", ctx, mock.Anything).Run(func(args mock.Arguments) {
			appended = append(appended, args.Get(1).(*inventory.HistoryRecord))
		}).Return(nil)

		resp, err := f.service.Adjust(ctx, tenantID, item.ID, "bob", AdjustStockRequest{
			Delta:  decimal.NewFromInt(5),
			Reason: "Restock",
		})
		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(15)))

		require.Len(t, appended, 1)
		assert.Equal(t, inventory.HistoryTypeAdjustment, appended[0].Type)
		assert.True(t, appended[0].QuantityChange.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "Restock", appended[0].Reason)
		assert.Equal(t, inventory.FieldChange{Old: "10", New: "15"}, appended[0].Changes[inventory.FieldQuantity])
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockAdjusted), 1)
		assert.Empty(t, f.publisher.GetEventsByType(inventory.EventTypeStockLow))
	})

	t.Run("overdraw is rejected without writes", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 3, 1, 4)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)

		_, err := f.service.Adjust(ctx, tenantID, item.ID, "", AdjustStockRequest{Delta: decimal.NewFromInt(-4)})
		require.Error(t, err)
		assert.True(t, shared.IsInvariantViolation(err))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(3)))
		f.itemRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Zero(t, f.publisher.Count())
	})

	t.Run("draining to threshold raises stock low", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 6, 2, 4)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		f.historyRepo.On("Append", ctx, mock.Anything).Return(nil)

		_, err := f.service.Adjust(ctx, tenantID, item.ID, "", AdjustStockRequest{Delta: decimal.NewFromInt(-4)})
		require.NoError(t, err)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockLow), 1)
	})

	t.Run("version conflict skips history", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 6, 2, 4)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", ctx, item).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.Adjust(ctx, tenantID, item.ID, "", AdjustStockRequest{Delta: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Zero(t, f.publisher.Count())
	})

	t.Run("busy record lock is a conflict", func(t *testing.T) {
		f := newServiceFixture()
		itemID := uuid.New()
		held, err := f.locker.Obtain(ctx, lock.Key(lock.KindInventoryItem, tenantID, itemID))
		require.NoError(t, err)
		defer held.Release(ctx)

		_, err = f.service.Adjust(ctx, tenantID, itemID, "", AdjustStockRequest{Delta: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.itemRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		f := newServiceFixture()
		itemID := uuid.New()
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, itemID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Adjust(ctx, tenantID, itemID, "", AdjustStockRequest{Delta: decimal.NewFromInt(1)})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestInventoryService_Adjust_NeverNegative(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newServiceFixture()
	item := createTestItem(tenantID, 5, 0, 1)
	f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
	f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.historyRepo.On("Append", ctx, mock.Anything).Return(nil)

	deltas := []int64{-3, -3, 4, -7, -6, 2, -1, -1, -1, 10, -20}
	for _, d := range deltas {
		_, _ = f.service.Adjust(ctx, tenantID, item.ID, "", AdjustStockRequest{Delta: decimal.NewFromInt(d)})
		assert.False(t, item.Quantity.IsNegative(), "quantity went negative after delta %d", d)
	}
}

func TestInventoryService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("unchanged name writes no history", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 10, 2, 40)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		name := "Flour"
		_, err := f.service.Update(ctx, tenantID, item.ID, "", UpdateItemRequest{Name: &name})
		require.NoError(t, err)
		f.historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		f.itemRepo.AssertCalled(t, "SaveWithLock", ctx, item)
		assert.Empty(t, f.publisher.GetEventsByType(inventory.EventTypeInventoryItemUpdated))
	})

	t.Run("cost change is recorded with old and new", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 10, 2, 40)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)
		f.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		f.historyRepo.On("Append", ctx, mock.MatchedBy(func(r *inventory.HistoryRecord) bool {
			c, ok := r.Changes[inventory.FieldCost]
			return r.Type == inventory.HistoryTypeUpdate && ok && c.Old == "40" && c.New == "50" && len(r.Changes) == 1
		})).Return(nil).Once()

		cost := decimal.NewFromInt(50)
		resp, err := f.service.Update(ctx, tenantID, item.ID, "alice", UpdateItemRequest{Cost: &cost})
		require.NoError(t, err)
		assert.True(t, resp.Cost.Equal(cost))
		f.historyRepo.AssertExpectations(t)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeInventoryItemUpdated), 1)
	})

	t.Run("negative target quantity is rejected", func(t *testing.T) {
		f := newServiceFixture()
		item := createTestItem(tenantID, 10, 2, 40)
		f.itemRepo.On("FindByIDForUpdate", ctx, tenantID, item.ID).Return(item, nil)

		qty := decimal.NewFromInt(-1)
		_, err := f.service.Update(ctx, tenantID, item.ID, "", UpdateItemRequest{Quantity: &qty})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.itemRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("negative min quantity is invalid input", func(t *testing.T) {
		f := newServiceFixture()
		minQty := decimal.NewFromInt(-2)
		_, err := f.service.Update(ctx, tenantID, uuid.New(), "", UpdateItemRequest{MinQuantity: &minQty})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestInventoryService_DeleteAndHistory(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newServiceFixture()
	itemID := uuid.New()

	f.itemRepo.On("DeleteForTenant", ctx, tenantID, itemID).Return(nil)
	require.NoError(t, f.service.Delete(ctx, tenantID, itemID))

	delta := decimal.NewFromInt(-2)
	now := time.Now()
	f.historyRepo.On("FindByItem", ctx, tenantID, itemID).Return([]inventory.HistoryRecord{
		{ID: uuid.New(), ItemID: itemID, Type: inventory.HistoryTypeAdjustment, Timestamp: now, QuantityChange: &delta},
		{ID: uuid.New(), ItemID: itemID, Type: inventory.HistoryTypeCreate, Timestamp: now.Add(-time.Hour)},
	}, nil)

	history, err := f.service.GetHistory(ctx, tenantID, itemID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "adjustment", history[0].Type)
	assert.Equal(t, "create", history[1].Type)
}

func TestInventoryService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newServiceFixture()
	low := true

	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == 20 &&
			filter.OrderBy == "name" && filter.OrderDir == "asc" &&
			filter.Filters["category"] == "Dry goods" && filter.Filters["low_stock"] == true
	})
	items := []inventory.InventoryItem{*createTestItem(tenantID, 1, 5, 2)}
	f.itemRepo.On("FindAllForTenant", ctx, tenantID, match).Return(items, nil)
	f.itemRepo.On("CountForTenant", ctx, tenantID, match).Return(int64(1), nil)

	result, total, err := f.service.List(ctx, tenantID, InventoryListFilter{Category: "Dry goods", LowStock: &low})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.True(t, result[0].IsLowStock)
}
