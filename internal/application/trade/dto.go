package trade

import (
	"time"

	"github.com/erp/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItemInput represents one line in a create or set-items request
type PurchaseItemInput struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" binding:"max=20"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

// CreatePurchaseRequest represents a request to record a purchase
type CreatePurchaseRequest struct {
	Type     string              `json:"type" binding:"required,oneof=purchase_order credit_note debit_note"`
	Number   string              `json:"number" binding:"required,min=1,max=50"`
	Supplier string              `json:"supplier" binding:"max=200"`
	Date     *time.Time          `json:"date"`
	DueDate  *time.Time          `json:"due_date"`
	Notes    string              `json:"notes" binding:"max=2000"`
	Items    []PurchaseItemInput `json:"items" binding:"dive"`
}

// SetItemsRequest replaces the item lines of a purchase
type SetItemsRequest struct {
	Items []PurchaseItemInput `json:"items" binding:"dive"`
}

// AddPaymentRequest represents a payment against a purchase
type AddPaymentRequest struct {
	Date      *time.Time      `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"max=50"`
	Reference string          `json:"reference" binding:"max=100"`
	Notes     string          `json:"notes" binding:"max=500"`
}

// CancelPurchaseRequest represents a request to cancel a purchase
type CancelPurchaseRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=purchase_order credit_note debit_note"`
	Status   string `form:"status" binding:"omitempty,oneof=pending partial paid cancelled"`
	Supplier string `form:"supplier"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID           uuid.UUID                    `json:"id"`
	TenantID     uuid.UUID                    `json:"tenant_id"`
	Type         string                       `json:"type"`
	Number       string                       `json:"number"`
	Supplier     string                       `json:"supplier"`
	Date         time.Time                    `json:"date"`
	DueDate      *time.Time                   `json:"due_date,omitempty"`
	Items        []trade.PurchaseItem         `json:"items"`
	TotalAmount  decimal.Decimal              `json:"total_amount"`
	PaidAmount   decimal.Decimal              `json:"paid_amount"`
	Outstanding  decimal.Decimal              `json:"outstanding"`
	Status       string                       `json:"status"`
	IsOverdue    bool                         `json:"is_overdue"`
	CancelReason string                       `json:"cancel_reason,omitempty"`
	Notes        string                       `json:"notes"`
	Payments     []trade.Payment              `json:"payments"`
	History      []trade.PurchaseHistoryEntry `json:"history"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
	Version      int                          `json:"version"`
}

// PurchaseListItemResponse represents a purchase in list responses (less detail)
type PurchaseListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Number       string          `json:"number"`
	Supplier     string          `json:"supplier"`
	Date         time.Time       `json:"date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	ItemCount    int             `json:"item_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Status       string          `json:"status"`
	PaymentCount int             `json:"payment_count"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToDomainItems validates the lines and computes their totals
func ToDomainItems(inputs []PurchaseItemInput) ([]trade.PurchaseItem, error) {
	items := make([]trade.PurchaseItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := trade.NewPurchaseItem(in.Name, in.Quantity, in.Unit, in.Price, in.TaxRate, in.DiscountRate)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// ToPurchaseResponse converts a domain purchase to a response
func ToPurchaseResponse(p *trade.Purchase, now time.Time) PurchaseResponse {
	return PurchaseResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Type:         p.Type.String(),
		Number:       p.Number,
		Supplier:     p.Supplier,
		Date:         p.Date,
		DueDate:      p.DueDate,
		Items:        nonNil(p.Items),
		TotalAmount:  p.TotalAmount,
		PaidAmount:   p.PaidAmount,
		Outstanding:  p.Outstanding(),
		Status:       p.Status.String(),
		IsOverdue:    p.IsOverdue(now),
		CancelReason: p.CancelReason,
		Notes:        p.Notes,
		Payments:     nonNil(p.Payments),
		History:      nonNil(p.History),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToPurchaseListItemResponses converts a slice of purchases
func ToPurchaseListItemResponses(purchases []trade.Purchase) []PurchaseListItemResponse {
	responses := make([]PurchaseListItemResponse, len(purchases))
	for i, p := range purchases {
		responses[i] = PurchaseListItemResponse{
			ID:           p.ID,
			Type:         p.Type.String(),
			Number:       p.Number,
			Supplier:     p.Supplier,
			Date:         p.Date,
			DueDate:      p.DueDate,
			ItemCount:    len(p.Items),
			TotalAmount:  p.TotalAmount,
			PaidAmount:   p.PaidAmount,
			Status:       p.Status.String(),
			PaymentCount: len(p.Payments),
			UpdatedAt:    p.UpdatedAt,
		}
	}
	return responses
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
