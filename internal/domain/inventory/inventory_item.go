package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stock-keeping record of one store.
// It is the aggregate root of the stock ledger; Quantity only changes
// through ApplyChanges and Adjust and is never negative at rest.
type InventoryItem struct {
	shared.TenantAggregateRoot
	Name        string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	Unit        string
	Category    string
	Cost        decimal.Decimal // unit cost
	Supplier    string
	ExpiryDate  *time.Time
	Location    string
	SKU         string
	Notes       string
	Tags        []string
	LastUpdated time.Time
}

// ItemAttributes carries the caller-supplied fields of a new item
type ItemAttributes struct {
	Name        string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	Unit        string
	Category    string
	Cost        decimal.Decimal
	Supplier    string
	ExpiryDate  *time.Time
	Location    string
	SKU         string
	Notes       string
	Tags        []string
}

// NewInventoryItem creates an item from attrs.
// The quantity is taken as supplied; input validation happens at the edge.
func NewInventoryItem(tenantID uuid.UUID, attrs ItemAttributes) (*InventoryItem, error) {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if shared.ExceedsScale(attrs.Quantity) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity has too many decimal places")
	}

	item := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Quantity:            attrs.Quantity,
		MinQuantity:         attrs.MinQuantity,
		Unit:                attrs.Unit,
		Category:            attrs.Category,
		Cost:                attrs.Cost,
		Supplier:            attrs.Supplier,
		ExpiryDate:          attrs.ExpiryDate,
		Location:            attrs.Location,
		SKU:                 attrs.SKU,
		Notes:               attrs.Notes,
		Tags:                NormalizeTags(attrs.Tags),
	}
	item.LastUpdated = item.CreatedAt

	item.AddDomainEvent(NewInventoryItemCreatedEvent(item))
	return item, nil
}

// CreationRecord returns the history entry describing the item's creation
func (i *InventoryItem) CreationRecord(user string) *HistoryRecord {
	record := NewHistoryRecord(i, HistoryTypeCreate, user)
	qty := i.Quantity
	record.QuantityChange = &qty
	record.Notes = "Item created"
	return record
}

// ApplyChanges applies a typed changeset and returns the history entry
// describing what actually changed. It returns a nil record when every
// field in the changeset already holds the requested value.
func (i *InventoryItem) ApplyChanges(changes ItemChanges, user string) (*HistoryRecord, error) {
	if changes.Name != nil && strings.TrimSpace(*changes.Name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if changes.Quantity != nil && changes.Quantity.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInsufficientStock, "Quantity cannot be negative")
	}
	if changes.Quantity != nil && shared.ExceedsScale(*changes.Quantity) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity has too many decimal places")
	}

	diff := changes.Diff(i)
	changes.applyTo(i)
	i.LastUpdated = i.Touch()

	if diff.IsEmpty() {
		return nil, nil
	}

	record := NewHistoryRecord(i, HistoryTypeUpdate, user)
	record.Changes = diff
	if qc, ok := diff[FieldQuantity]; ok {
		oldQty, _ := decimal.NewFromString(qc.Old)
		delta := i.Quantity.Sub(oldQty)
		record.QuantityChange = &delta
	}

	i.AddDomainEvent(NewInventoryItemUpdatedEvent(i, diff.Fields()))
	if diff.Has(FieldQuantity) && i.IsLowStock() {
		i.AddDomainEvent(NewStockLowEvent(i))
	}
	return record, nil
}

// Adjust applies a signed delta to the quantity.
// A delta that would take the quantity below zero is rejected and leaves
// the item untouched.
func (i *InventoryItem) Adjust(delta decimal.Decimal, reason, notes, user string) (*HistoryRecord, error) {
	if delta.IsZero() {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Adjustment quantity cannot be zero")
	}
	if shared.ExceedsScale(delta) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Adjustment quantity has too many decimal places")
	}

	before := i.Quantity
	candidate := before.Add(delta)
	if candidate.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInsufficientStock,
			"Insufficient stock: available "+before.String()+", requested "+delta.Neg().String())
	}

	i.Quantity = candidate
	i.LastUpdated = i.Touch()

	record := NewHistoryRecord(i, HistoryTypeAdjustment, user)
	d := delta
	record.QuantityChange = &d
	record.Reason = reason
	record.Notes = notes
	record.Changes = FieldChanges{
		FieldQuantity: {Old: before.String(), New: candidate.String()},
	}

	i.AddDomainEvent(NewStockAdjustedEvent(i, before, candidate, delta, reason))
	if i.IsLowStock() {
		i.AddDomainEvent(NewStockLowEvent(i))
	}
	return record, nil
}

// IsLowStock reports whether the quantity is at or below the threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinQuantity)
}

// IsExpiringBy reports whether the item has an expiry date at or before cutoff
func (i *InventoryItem) IsExpiringBy(cutoff time.Time) bool {
	return i.ExpiryDate != nil && !i.ExpiryDate.After(cutoff)
}

// StockValue returns quantity times unit cost
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.Quantity.Mul(i.Cost)
}

// NormalizeTags trims, deduplicates and sorts tags
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
