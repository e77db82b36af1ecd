package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ShortfallRow is one line of a shopping list
type ShortfallRow struct {
	Item     string          `json:"item"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`
	Category Category        `json:"category"`
}

// CategoryGroup holds the rows of a single category
type CategoryGroup struct {
	Category Category       `json:"category"`
	Rows     []ShortfallRow `json:"rows"`
}

// ShoppingList is the ordered output of an aggregation run
type ShoppingList struct {
	Rows []ShortfallRow `json:"rows"`
}

// SortRows orders rows by category, then by item name
func (l *ShoppingList) SortRows() {
	sort.SliceStable(l.Rows, func(i, j int) bool {
		if l.Rows[i].Category != l.Rows[j].Category {
			return l.Rows[i].Category < l.Rows[j].Category
		}
		return l.Rows[i].Item < l.Rows[j].Item
	})
}

// Groups splits the rows by category, preserving row order within each category.
// Groups are ordered by category name.
func (l ShoppingList) Groups() []CategoryGroup {
	index := make(map[Category]int)
	var groups []CategoryGroup
	for _, row := range l.Rows {
		i, ok := index[row.Category]
		if !ok {
			i = len(groups)
			index[row.Category] = i
			groups = append(groups, CategoryGroup{Category: row.Category})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// Find returns the first row for item
func (l ShoppingList) Find(item string) (ShortfallRow, bool) {
	for _, row := range l.Rows {
		if row.Item == item {
			return row, true
		}
	}
	return ShortfallRow{}, false
}

// Len returns the number of rows
func (l ShoppingList) Len() int {
	return len(l.Rows)
}
