package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// parseStock reads "Item=qty" pairs into a stock map. Later pairs win.
func parseStock(pairs []string) (map[string]decimal.Decimal, error) {
	stock := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		name, qty, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid stock %q, expected Item=quantity", pair)
		}
		quantity, err := entities.ParseQuantity(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid stock for %s: %w", name, err)
		}
		stock[name] = quantity
	}
	return stock, nil
}

// lineItem is the shared "Name=qty:Unit:Category" notation of extras and ingredients.
// Unit defaults to Un and category to Outros.
type lineItem struct {
	Name     string
	Quantity decimal.Decimal
	Unit     entities.Unit
	Category entities.Category
}

func parseLineItem(s string) (lineItem, error) {
	name, rest, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return lineItem{}, fmt.Errorf("invalid item %q, expected Name=quantity[:unit[:category]]", s)
	}

	parts := strings.SplitN(rest, ":", 3)
	quantity, err := entities.ParseQuantity(parts[0])
	if err != nil {
		return lineItem{}, fmt.Errorf("invalid quantity for %s: %w", name, err)
	}
	item := lineItem{
		Name:     name,
		Quantity: quantity,
		Unit:     entities.UnitEach,
		Category: entities.DefaultCategory,
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		if item.Unit, err = entities.ParseUnit(parts[1]); err != nil {
			return lineItem{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		if item.Category, err = entities.ParseCategory(parts[2]); err != nil {
			return lineItem{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return item, nil
}

func parseExtras(specs []string) ([]entities.ExtraItem, error) {
	extras := make([]entities.ExtraItem, 0, len(specs))
	for _, spec := range specs {
		item, err := parseLineItem(spec)
		if err != nil {
			return nil, err
		}
		extra, err := entities.NewExtraItem(item.Name, item.Quantity, item.Unit, item.Category)
		if err != nil {
			return nil, err
		}
		extras = append(extras, *extra)
	}
	return extras, nil
}
