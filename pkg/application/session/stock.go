package session

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// StockTracker holds on-hand quantities for the current session.
// Entries are never dropped once tracked; items outside the active set are simply unused.
type StockTracker struct {
	levels map[string]decimal.Decimal
}

// NewStockTracker creates a tracker seeded with zero stock for items
func NewStockTracker(items []string) *StockTracker {
	t := &StockTracker{levels: make(map[string]decimal.Decimal, len(items))}
	t.Reseed(items)
	return t
}

// Reseed starts tracking any new item at zero, keeping existing values
func (t *StockTracker) Reseed(items []string) {
	for _, item := range items {
		if _, ok := t.levels[item]; !ok {
			t.levels[item] = decimal.Zero
		}
	}
}

// Set records the on-hand quantity of item
func (t *StockTracker) Set(item string, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return fmt.Errorf("stock of %s cannot be negative, got %s", item, quantity)
	}
	t.levels[item] = quantity
	return nil
}

// Get returns the on-hand quantity of item, zero when untracked
func (t *StockTracker) Get(item string) decimal.Decimal {
	return t.levels[item]
}

// Tracked reports whether item has a stock entry
func (t *StockTracker) Tracked(item string) bool {
	_, ok := t.levels[item]
	return ok
}

// Levels returns a copy of all tracked quantities
func (t *StockTracker) Levels() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.levels))
	for item, qty := range t.levels {
		out[item] = qty
	}
	return out
}

// Items returns the tracked item names in alphabetical order
func (t *StockTracker) Items() []string {
	items := make([]string, 0, len(t.levels))
	for item := range t.levels {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// reset drops every entry and tracks items at zero
func (t *StockTracker) reset(items []string) {
	t.levels = make(map[string]decimal.Decimal, len(items))
	t.Reseed(items)
}
