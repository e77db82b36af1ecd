package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit represents the unit of measure of an item
type Unit string

const (
	UnitEach    Unit = "Un"
	UnitPack    Unit = "Pct"
	UnitKilo    Unit = "Kg"
	UnitLiter   Unit = "L"
	UnitUnknown Unit = ""
)

// Units lists the selectable units in display order
var Units = []Unit{UnitEach, UnitPack, UnitKilo, UnitLiter}

// String method for Unit
func (u Unit) String() string {
	return string(u)
}

// Valid reports whether u is one of the selectable units
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// ParseUnit matches a unit case-insensitively
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	for _, known := range Units {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return UnitUnknown, fmt.Errorf("unknown unit %q (expected one of %v)", s, Units)
}

// Category groups items the way they are laid out in the store
type Category string

const (
	CategoryProduce    Category = "Feira"
	CategoryDeli       Category = "Frios"
	CategoryButcher    Category = "Açougue"
	CategoryCondiments Category = "Condimentos"
	CategoryCleaning   Category = "Limpeza"
	CategoryOther      Category = "Outros"
)

// DefaultCategory is used whenever an item has no category
const DefaultCategory = CategoryOther

// Categories lists the selectable categories in display order
var Categories = []Category{
	CategoryProduce,
	CategoryDeli,
	CategoryButcher,
	CategoryCondiments,
	CategoryCleaning,
	CategoryOther,
}

// String method for Category
func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the selectable categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OrDefault returns c, or DefaultCategory when c is empty
func (c Category) OrDefault() Category {
	if c == "" {
		return DefaultCategory
	}
	return c
}

// ParseCategory matches a category case-insensitively
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of %v)", s, Categories)
}

// ParseQuantity reads a non-negative quantity typed by a user. A comma is
// accepted as the decimal separator and blank input means zero.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, nil
	}
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q", s)
	}
	if q.IsNegative() {
		return decimal.Zero, fmt.Errorf("quantity cannot be negative, got %s", q)
	}
	return q, nil
}
