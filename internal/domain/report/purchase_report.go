package report

import (
	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseStats aggregates the purchase book
type PurchaseStats struct {
	Count            int64                         `json:"count"`
	OpenCount        int64                         `json:"open_count"` // pending or partial
	TotalAmount      decimal.Decimal               `json:"total_amount"`
	PaidAmount       decimal.Decimal               `json:"paid_amount"`
	OutstandingTotal decimal.Decimal               `json:"outstanding_total"`
	ByStatus         map[trade.PaymentStatus]int64 `json:"by_status"`
}

// SummarizePurchases computes purchase statistics over every record.
// Count and the amount sums include cancelled purchases; the outstanding
// total does not.
func SummarizePurchases(purchases []trade.Purchase) PurchaseStats {
	s := PurchaseStats{
		TotalAmount:      decimal.Zero,
		PaidAmount:       decimal.Zero,
		OutstandingTotal: decimal.Zero,
		ByStatus:         make(map[trade.PaymentStatus]int64),
	}
	for i := range purchases {
		p := &purchases[i]
		s.Count++
		if p.Status.IsOpen() {
			s.OpenCount++
		}
		s.TotalAmount = s.TotalAmount.Add(p.TotalAmount)
		s.PaidAmount = s.PaidAmount.Add(p.PaidAmount)
		if !p.IsCancelled() {
			s.OutstandingTotal = s.OutstandingTotal.Add(p.Outstanding())
		}
		s.ByStatus[p.Status]++
	}
	return s
}
