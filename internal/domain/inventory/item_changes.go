package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field names used in change maps
const (
	FieldName        = "name"
	FieldQuantity    = "quantity"
	FieldMinQuantity = "minQuantity"
	FieldUnit        = "unit"
	FieldCategory    = "category"
	FieldCost        = "cost"
	FieldSupplier    = "supplier"
	FieldExpiryDate  = "expiryDate"
	FieldLocation    = "location"
	FieldSKU         = "sku"
	FieldNotes       = "notes"
	FieldTags        = "tags"
)

const expiryLayout = "2006-01-02"

// ItemChanges is a partial update of an item. A nil field is left alone.
// ExpiryDate is cleared by setting ClearExpiryDate.
type ItemChanges struct {
	Name            *string
	Quantity        *decimal.Decimal
	MinQuantity     *decimal.Decimal
	Unit            *string
	Category        *string
	Cost            *decimal.Decimal
	Supplier        *string
	ExpiryDate      *time.Time
	ClearExpiryDate bool
	Location        *string
	SKU             *string
	Notes           *string
	Tags            []string
	SetTags         bool
}

// FieldChange holds the old and new rendering of one field
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// FieldChanges maps a field name to its change
type FieldChanges map[string]FieldChange

// IsEmpty reports whether nothing changed
func (c FieldChanges) IsEmpty() bool {
	return len(c) == 0
}

// Has reports whether field changed
func (c FieldChanges) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Fields returns the changed field names in sorted order
func (c FieldChanges) Fields() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Diff compares the changeset against the current state of item and
// returns only the fields whose value would actually change
func (c ItemChanges) Diff(item *InventoryItem) FieldChanges {
	diff := FieldChanges{}

	diffString := func(field string, current string, next *string) {
		if next != nil && *next != current {
			diff[field] = FieldChange{Old: current, New: *next}
		}
	}
	diffDecimal := func(field string, current decimal.Decimal, next *decimal.Decimal) {
		if next != nil && !next.Equal(current) {
			diff[field] = FieldChange{Old: current.String(), New: next.String()}
		}
	}

	diffString(FieldName, item.Name, trimmed(c.Name))
	diffDecimal(FieldQuantity, item.Quantity, c.Quantity)
	diffDecimal(FieldMinQuantity, item.MinQuantity, c.MinQuantity)
	diffString(FieldUnit, item.Unit, c.Unit)
	diffString(FieldCategory, item.Category, c.Category)
	diffDecimal(FieldCost, item.Cost, c.Cost)
	diffString(FieldSupplier, item.Supplier, c.Supplier)
	diffString(FieldLocation, item.Location, c.Location)
	diffString(FieldSKU, item.SKU, c.SKU)
	diffString(FieldNotes, item.Notes, c.Notes)

	if next, set := c.nextExpiry(); set {
		old, nw := formatExpiry(item.ExpiryDate), formatExpiry(next)
		if !sameExpiry(item.ExpiryDate, next) {
			diff[FieldExpiryDate] = FieldChange{Old: old, New: nw}
		}
	}

	if c.SetTags {
		old := strings.Join(item.Tags, ",")
		nw := strings.Join(NormalizeTags(c.Tags), ",")
		if old != nw {
			diff[FieldTags] = FieldChange{Old: old, New: nw}
		}
	}

	return diff
}

func (c ItemChanges) applyTo(item *InventoryItem) {
	if name := trimmed(c.Name); name != nil {
		item.Name = *name
	}
	if c.Quantity != nil {
		item.Quantity = *c.Quantity
	}
	if c.MinQuantity != nil {
		item.MinQuantity = *c.MinQuantity
	}
	if c.Unit != nil {
		item.Unit = *c.Unit
	}
	if c.Category != nil {
		item.Category = *c.Category
	}
	if c.Cost != nil {
		item.Cost = *c.Cost
	}
	if c.Supplier != nil {
		item.Supplier = *c.Supplier
	}
	if next, set := c.nextExpiry(); set {
		item.ExpiryDate = next
	}
	if c.Location != nil {
		item.Location = *c.Location
	}
	if c.SKU != nil {
		item.SKU = *c.SKU
	}
	if c.Notes != nil {
		item.Notes = *c.Notes
	}
	if c.SetTags {
		item.Tags = NormalizeTags(c.Tags)
	}
}

func (c ItemChanges) nextExpiry() (*time.Time, bool) {
	if c.ClearExpiryDate {
		return nil, true
	}
	if c.ExpiryDate != nil {
		return c.ExpiryDate, true
	}
	return nil, false
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func sameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(expiryLayout)
}
