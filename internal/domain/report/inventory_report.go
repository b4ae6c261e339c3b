package report

import (
	"sort"
	"time"

	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// DefaultExpiryWindow is how far ahead the expiring-soon view looks
const DefaultExpiryWindow = 30 * 24 * time.Hour

// InventoryValueByCategory is the category rollup read model
type InventoryValueByCategory struct {
	CategoryName  string          `json:"category_name"`
	ItemCount     int64           `json:"item_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int64           `json:"low_stock_count"`
	Percentage    decimal.Decimal `json:"percentage"` // share of the total inventory value
}

// InventorySummary is the headline inventory figures
type InventorySummary struct {
	TotalItems      int64           `json:"total_items"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
}

// LowStock returns the items at or below their minimum quantity, in input order
func LowStock(items []inventory.InventoryItem) []inventory.InventoryItem {
	out := make([]inventory.InventoryItem, 0)
	for i := range items {
		if items[i].IsLowStock() {
			out = append(out, items[i])
		}
	}
	return out
}

// ExpiringSoon returns items whose expiry date is at or before now+window,
// soonest first. Already expired items are included.
func ExpiringSoon(items []inventory.InventoryItem, now time.Time, window time.Duration) []inventory.InventoryItem {
	cutoff := now.Add(window)
	out := make([]inventory.InventoryItem, 0)
	for i := range items {
		if items[i].IsExpiringBy(cutoff) {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].ExpiryDate.Before(*out[b].ExpiryDate)
	})
	return out
}

// InventoryValue returns the sum of quantity*cost
func InventoryValue(items []inventory.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].StockValue())
	}
	return total
}

// SummarizeInventory computes the headline figures in one pass
func SummarizeInventory(items []inventory.InventoryItem) InventorySummary {
	s := InventorySummary{
		TotalItems:    int64(len(items)),
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	for i := range items {
		s.TotalQuantity = s.TotalQuantity.Add(items[i].Quantity)
		s.TotalValue = s.TotalValue.Add(items[i].StockValue())
		if items[i].IsLowStock() {
			s.LowStockCount++
		}
		if items[i].Quantity.IsZero() {
			s.OutOfStockCount++
		}
	}
	return s
}

// CategoryRollup groups items by category, sorted by category name.
// Items without a category are grouped under an empty name.
func CategoryRollup(items []inventory.InventoryItem) []InventoryValueByCategory {
	byName := make(map[string]*InventoryValueByCategory)
	grand := decimal.Zero
	for i := range items {
		it := &items[i]
		row, ok := byName[it.Category]
		if !ok {
			row = &InventoryValueByCategory{
				CategoryName:  it.Category,
				TotalQuantity: decimal.Zero,
				TotalValue:    decimal.Zero,
			}
			byName[it.Category] = row
		}
		value := it.StockValue()
		row.ItemCount++
		row.TotalQuantity = row.TotalQuantity.Add(it.Quantity)
		row.TotalValue = row.TotalValue.Add(value)
		if it.IsLowStock() {
			row.LowStockCount++
		}
		grand = grand.Add(value)
	}

	out := make([]InventoryValueByCategory, 0, len(byName))
	for _, row := range byName {
		row.Percentage = decimal.Zero
		if grand.IsPositive() {
			row.Percentage = row.TotalValue.Div(grand).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CategoryName < out[b].CategoryName
	})
	return out
}
