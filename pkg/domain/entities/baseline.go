package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BaselineItem is a staple the household always wants to keep on hand
type BaselineItem struct {
	Name     string
	Minimum  decimal.Decimal
	Unit     Unit
	Category Category
}

// NewBaselineItem creates a validated BaselineItem
func NewBaselineItem(name string, minimum decimal.Decimal, unit Unit, category Category) (*BaselineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if minimum.IsNegative() {
		return nil, fmt.Errorf("minimum quantity cannot be negative, got %s", minimum)
	}
	return &BaselineItem{
		Name:     name,
		Minimum:  minimum,
		Unit:     unit,
		Category: category,
	}, nil
}

// ExtraItem is a one-off entry added for the current shopping run only
type ExtraItem struct {
	Name     string
	Quantity decimal.Decimal
	Unit     Unit
	Category Category
}

// NewExtraItem creates a validated ExtraItem, rounding its quantity to 2 decimal places
func NewExtraItem(name string, quantity decimal.Decimal, unit Unit, category Category) (*ExtraItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	return &ExtraItem{
		Name:     name,
		Quantity: quantity.Round(2),
		Unit:     unit,
		Category: category,
	}, nil
}
