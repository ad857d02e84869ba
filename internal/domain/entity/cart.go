package entity

import (
	"encoding/json"
	"strings"

	"github.com/wicara/warungpos-api/internal/domain/enum"
)

// NameKey returns the canonical identity key for an item name.
// Two names denote the same cart line iff their keys are equal. This is the
// only identity rule used when merging cart lines; no fuzzy matching here.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameItem reports whether two item names denote the same cart line.
func SameItem(a, b string) bool {
	return NameKey(a) == NameKey(b)
}

// CartLine is a single line in an in-progress order. Lines are owned by the
// order session and destroyed on commit or reset; they are never persisted
// directly (a committed sale freezes them into TransactionItems).
type CartLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice int64           `json:"-"` // cents
	Source    enum.ItemSource `json:"source"`
}

// MarshalJSON converts the unit price from cents to decimal for API responses
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		LineTotal: float64(l.UnitPrice*int64(l.Quantity)) / 100,
	})
}

// LineUpdate is one entry of a merge instruction (an add, update or remove).
// Price is in cents and nil when the upstream extractor did not produce one.
type LineUpdate struct {
	Name     string
	Quantity int
	Price    *int64
	Source   enum.ItemSource
}

// Cart is the mutable, insertion-ordered set of lines for one order session.
// Order matters for display only, never for totals.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Find returns the index of the line matching name, or -1.
func (c *Cart) Find(name string) int {
	for i := range c.Lines {
		if SameItem(c.Lines[i].Name, name) {
			return i
		}
	}
	return -1
}

// ApplyActionSet applies a structured {add, update, remove} instruction set.
// Removes run first, then updates, then adds, so a single extraction result
// behaves deterministically even when it mentions the same item twice.
func (c *Cart) ApplyActionSet(add, update, remove []LineUpdate) {
	for _, entry := range remove {
		if i := c.Find(entry.Name); i >= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
	}

	for _, entry := range update {
		if i := c.Find(entry.Name); i >= 0 {
			// Replace, never increment: "make that three" means three total.
			if entry.Quantity > 0 {
				c.Lines[i].Quantity = entry.Quantity
			}
			if entry.Price != nil {
				c.Lines[i].UnitPrice = *entry.Price
			}
			continue
		}
		// An update for an unknown item is treated as an insert when it
		// carries a price; without one there is nothing sellable to insert.
		if entry.Price != nil {
			c.insert(entry)
		}
	}

	c.AddItems(add)
}

// AddItems applies the increment-or-insert rule used for both the `add`
// action and the flat item list. Entries without a price never enter the
// cart; the session layer is responsible for routing them to price
// confirmation first.
//
// This is intentionally not idempotent: re-speaking "two burgers" adds two
// more burgers.
func (c *Cart) AddItems(items []LineUpdate) {
	for _, entry := range items {
		if entry.Price == nil || entry.Quantity <= 0 {
			continue
		}
		if i := c.Find(entry.Name); i >= 0 {
			c.Lines[i].Quantity += entry.Quantity
			continue
		}
		c.insert(entry)
	}
}

func (c *Cart) insert(entry LineUpdate) {
	qty := entry.Quantity
	if qty <= 0 {
		qty = 1
	}
	c.Lines = append(c.Lines, CartLine{
		Name:      strings.TrimSpace(entry.Name),
		Quantity:  qty,
		UnitPrice: *entry.Price,
		Source:    entry.Source,
	})
}

// SubtotalCents returns the sum of quantity × unit price over all lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Reset discards all lines.
func (c *Cart) Reset() {
	c.Lines = nil
}
