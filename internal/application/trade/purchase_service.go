package trade

import (
	"context"
	"errors"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/erp/backoffice/internal/infrastructure/lock"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Payment actions reported to the ledger metrics
const (
	PaymentActionAdded   = "added"
	PaymentActionRemoved = "removed"
)

// PurchaseService handles purchase recording and payment reconciliation
type PurchaseService struct {
	purchaseRepo   trade.PurchaseRepository
	txScope        TransactionScope
	locker         lock.Locker
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LedgerMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo trade.PurchaseRepository, txScope TransactionScope, locker lock.Locker) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		txScope:      txScope,
		locker:       locker,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLedgerMetrics sets the ledger counters
func (s *PurchaseService) SetLedgerMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// SetLogger sets the logger
func (s *PurchaseService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *PurchaseService) publishDomainEvents(ctx context.Context, p *trade.Purchase) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish purchase events",
			zap.String("purchase_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *PurchaseService) respond(p *trade.Purchase) *PurchaseResponse {
	response := ToPurchaseResponse(p, s.now())
	return &response
}

// Create records a new purchase
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, user string, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	items, err := ToDomainItems(req.Items)
	if err != nil {
		return nil, err
	}

	header := trade.PurchaseHeader{
		Type:     trade.PurchaseType(req.Type),
		Number:   req.Number,
		Supplier: req.Supplier,
		DueDate:  req.DueDate,
		Notes:    req.Notes,
	}
	if req.Date != nil {
		header.Date = *req.Date
	}

	purchase, err := trade.NewPurchase(tenantID, header, items, user)
	if err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// GetByID retrieves a purchase by ID
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	return s.respond(purchase), nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseListFilter) ([]PurchaseListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Supplier != "" {
		domainFilter.Filters["supplier"] = filter.Supplier
	}

	purchases, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseListItemResponses(purchases), total, nil
}

// SetItems replaces the item lines; the total and status are recomputed
func (s *PurchaseService) SetItems(ctx context.Context, tenantID, purchaseID uuid.UUID, user string, req SetItemsRequest) (*PurchaseResponse, error) {
	items, err := ToDomainItems(req.Items)
	if err != nil {
		return nil, err
	}

	purchase, err := s.mutate(ctx, tenantID, purchaseID, func(p *trade.Purchase) error {
		return p.SetItems(items, user)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// AddPayment appends a payment. Amounts of zero or less are rejected with
// PAYMENT_AMOUNT_INVALID; overpayment is allowed and yields "paid".
func (s *PurchaseService) AddPayment(ctx context.Context, tenantID, purchaseID uuid.UUID, user string, req AddPaymentRequest) (*PurchaseResponse, error) {
	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	payment, err := trade.NewPayment(date, req.Amount, req.Method, req.Reference, req.Notes)
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, err
	}

	purchase, err := s.mutate(ctx, tenantID, purchaseID, func(p *trade.Purchase) error {
		return p.AddPayment(*payment, user)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, tenantID, PaymentActionAdded)
	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// RemovePayment removes the payment at index (0-based)
func (s *PurchaseService) RemovePayment(ctx context.Context, tenantID, purchaseID uuid.UUID, user string, index int) (*PurchaseResponse, error) {
	purchase, err := s.mutate(ctx, tenantID, purchaseID, func(p *trade.Purchase) error {
		_, err := p.RemovePayment(index, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, tenantID, PaymentActionRemoved)
	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// Cancel freezes a purchase
func (s *PurchaseService) Cancel(ctx context.Context, tenantID, purchaseID uuid.UUID, user string, req CancelPurchaseRequest) (*PurchaseResponse, error) {
	purchase, err := s.mutate(ctx, tenantID, purchaseID, func(p *trade.Purchase) error {
		return p.Cancel(req.Reason, user)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// Reactivate leaves the cancelled state and derives the status from the totals again
func (s *PurchaseService) Reactivate(ctx context.Context, tenantID, purchaseID uuid.UUID, user string) (*PurchaseResponse, error) {
	purchase, err := s.mutate(ctx, tenantID, purchaseID, func(p *trade.Purchase) error {
		return p.Reactivate(user)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, purchase)
	return s.respond(purchase), nil
}

// Delete removes a purchase
func (s *PurchaseService) Delete(ctx context.Context, tenantID, purchaseID uuid.UUID) error {
	held, err := s.locker.Obtain(ctx, lock.Key(lock.KindPurchase, tenantID, purchaseID))
	if err != nil {
		return err
	}
	defer s.release(ctx, held)

	return s.purchaseRepo.DeleteForTenant(ctx, tenantID, purchaseID)
}

// mutate loads the purchase under its record lock and a row lock, applies
// fn and saves it with a version check, all in one transaction
func (s *PurchaseService) mutate(ctx context.Context, tenantID, purchaseID uuid.UUID, fn func(p *trade.Purchase) error) (*trade.Purchase, error) {
	held, err := s.locker.Obtain(ctx, lock.Key(lock.KindPurchase, tenantID, purchaseID))
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, err
	}
	defer s.release(ctx, held)

	var result *trade.Purchase
	err = s.txScope.Execute(ctx, func(repo trade.PurchaseRepository) error {
		purchase, err := repo.FindByIDForUpdate(ctx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		if err := fn(purchase); err != nil {
			return err
		}
		if err := repo.SaveWithLock(ctx, purchase); err != nil {
			return err
		}
		result = purchase
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, err
	}
	return result, nil
}

func (s *PurchaseService) release(ctx context.Context, held lock.Lock) {
	if err := held.Release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to release purchase lock", zap.Error(err))
	}
}

func (s *PurchaseService) recordRejection(ctx context.Context, err error) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return
	}
	if shared.IsInvariantViolation(err) || de.Code == shared.CodeConcurrencyConflict {
		s.metrics.RecordRejection(ctx, de.Code)
	}
}
