package report

import (
	"context"
	"time"

	appinv "github.com/erp/backoffice/internal/application/inventory"
	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/erp/backoffice/internal/domain/report"
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ItemSource lists every inventory item of a tenant
type ItemSource interface {
	ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error)
}

// PurchaseSource lists every purchase of a tenant
type PurchaseSource interface {
	ListAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]trade.Purchase, error)
}

// ReportService computes the derived views. Every call scans the current
// records; nothing is cached.
type ReportService struct {
	items        ItemSource
	purchases    PurchaseSource
	expiryWindow time.Duration
	now          func() time.Time
}

// NewReportService creates a new ReportService; a zero window means 30 days
func NewReportService(items ItemSource, purchases PurchaseSource, expiryWindow time.Duration) *ReportService {
	if expiryWindow <= 0 {
		expiryWindow = report.DefaultExpiryWindow
	}
	return &ReportService{
		items:        items,
		purchases:    purchases,
		expiryWindow: expiryWindow,
		now:          time.Now,
	}
}

// InventoryValueResponse is the total stock value
type InventoryValueResponse struct {
	TotalValue decimal.Decimal         `json:"total_value"`
	Summary    report.InventorySummary `json:"summary"`
}

// ExpiringResponse lists the items expiring within the window
type ExpiringResponse struct {
	Cutoff time.Time                      `json:"cutoff"`
	Items  []appinv.InventoryItemResponse `json:"items"`
}

// DashboardResponse bundles every derived view
type DashboardResponse struct {
	Inventory  report.InventorySummary           `json:"inventory"`
	LowStock   []appinv.InventoryItemResponse    `json:"low_stock"`
	Expiring   []appinv.InventoryItemResponse    `json:"expiring"`
	Categories []report.InventoryValueByCategory `json:"categories"`
	Purchases  report.PurchaseStats              `json:"purchases"`
	Overdue    int64                             `json:"overdue_purchases"`
	ComputedAt time.Time                         `json:"computed_at"`
}

// LowStock returns items at or below their minimum quantity
func (s *ReportService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]appinv.InventoryItemResponse, error) {
	items, err := s.items.ListAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return appinv.ToInventoryItemResponses(report.LowStock(items)), nil
}

// ExpiringSoon returns items expiring within window; a zero window uses the configured one
func (s *ReportService) ExpiringSoon(ctx context.Context, tenantID uuid.UUID, window time.Duration) (*ExpiringResponse, error) {
	if window <= 0 {
		window = s.expiryWindow
	}
	items, err := s.items.ListAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &ExpiringResponse{
		Cutoff: now.Add(window),
		Items:  appinv.ToInventoryItemResponses(report.ExpiringSoon(items, now, window)),
	}, nil
}

// InventoryValue returns the sum of quantity*cost with the headline figures
func (s *ReportService) InventoryValue(ctx context.Context, tenantID uuid.UUID) (*InventoryValueResponse, error) {
	items, err := s.items.ListAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &InventoryValueResponse{
		TotalValue: report.InventoryValue(items),
		Summary:    report.SummarizeInventory(items),
	}, nil
}

// CategoryRollup returns per-category totals
func (s *ReportService) CategoryRollup(ctx context.Context, tenantID uuid.UUID) ([]report.InventoryValueByCategory, error) {
	items, err := s.items.ListAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return report.CategoryRollup(items), nil
}

// PurchaseStats returns the purchase book statistics
func (s *ReportService) PurchaseStats(ctx context.Context, tenantID uuid.UUID) (*report.PurchaseStats, error) {
	purchases, err := s.purchases.ListAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stats := report.SummarizePurchases(purchases)
	return &stats, nil
}

// Dashboard loads items and purchases concurrently and computes every view
func (s *ReportService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	var (
		items     []inventory.InventoryItem
		purchases []trade.Purchase
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.items.ListAllForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = s.purchases.ListAllForTenant(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	resp := &DashboardResponse{
		Inventory:  report.SummarizeInventory(items),
		LowStock:   appinv.ToInventoryItemResponses(report.LowStock(items)),
		Expiring:   appinv.ToInventoryItemResponses(report.ExpiringSoon(items, now, s.expiryWindow)),
		Categories: report.CategoryRollup(items),
		Purchases:  report.SummarizePurchases(purchases),
		ComputedAt: now,
	}
	for i := range purchases {
		if purchases[i].IsOverdue(now) {
			resp.Overdue++
		}
	}
	return resp, nil
}
