package trade

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PurchaseItem is a line of a purchase. Subtotal and Total are derived.
type PurchaseItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`      // percent of subtotal
	DiscountRate decimal.Decimal `json:"discount_rate"` // percent of subtotal
	Total        decimal.Decimal `json:"total"`
}

// NewPurchaseItem validates a line and computes its totals
func NewPurchaseItem(name string, quantity decimal.Decimal, unit string, price, taxRate, discountRate decimal.Decimal) (*PurchaseItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity must be positive")
	}
	if shared.ExceedsScale(quantity) || shared.ExceedsScale(price) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity and price allow at most 4 decimal places")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Price cannot be negative")
	}
	if !isPercent(taxRate) || !isPercent(discountRate) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Tax and discount must be between 0 and 100 percent")
	}

	item := &PurchaseItem{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     quantity,
		Unit:         unit,
		Price:        price,
		TaxRate:      taxRate,
		DiscountRate: discountRate,
	}
	item.recalculate()
	return item, nil
}

// recalculate applies subtotal = quantity*price and
// total = subtotal + tax% of subtotal - discount% of subtotal,
// both rounded to the stored scale
func (i *PurchaseItem) recalculate() {
	i.Subtotal = shared.RoundToScale(i.Quantity.Mul(i.Price))
	tax := i.Subtotal.Mul(i.TaxRate).Div(hundred)
	discount := i.Subtotal.Mul(i.DiscountRate).Div(hundred)
	i.Total = shared.RoundToScale(i.Subtotal.Add(tax).Sub(discount))
}

func isPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
