package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// DemandPolicy decides how baseline minimums and recipe requirements for the
// same item are combined against a single stock level.
type DemandPolicy int

const (
	// DemandAdditive tracks baseline and recipe deficits as separate demands and sums them.
	DemandAdditive DemandPolicy = iota
	// DemandMax treats the larger of the two as the only demand for the item.
	DemandMax
)

// String method for DemandPolicy enum
func (p DemandPolicy) String() string {
	switch p {
	case DemandAdditive:
		return "additive"
	case DemandMax:
		return "max"
	default:
		return "unknown"
	}
}

// ParseDemandPolicy parses the config representation of a DemandPolicy
func ParseDemandPolicy(s string) (DemandPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "additive":
		return DemandAdditive, nil
	case "max":
		return DemandMax, nil
	default:
		return DemandAdditive, fmt.Errorf("unknown demand policy %q", s)
	}
}

// Requirement is the total quantity of an ingredient needed by the selected recipes
type Requirement struct {
	Quantity decimal.Decimal
	Unit     entities.Unit
}

// AggregationInput holds everything a shortfall computation reads
type AggregationInput struct {
	Recipes  map[string]entities.Recipe
	Selected []string
	Baseline map[string]entities.BaselineItem
	Stock    map[string]decimal.Decimal
	Extras   []entities.ExtraItem
}

// Aggregator merges recipe requirements with baseline minimums and subtracts stock
type Aggregator struct {
	policy DemandPolicy
}

// NewAggregator creates an aggregator using the given demand policy
func NewAggregator(policy DemandPolicy) *Aggregator {
	return &Aggregator{policy: policy}
}

// Policy returns the demand policy in use
func (a *Aggregator) Policy() DemandPolicy {
	return a.policy
}

// RequiredIngredients sums ingredient quantities across the selected recipes.
// Ingredients absent from the baseline are returned as recipe-only items with a
// zero minimum, carrying the unit and category declared by the recipe that
// mentioned them last. Unknown recipe names are skipped.
func RequiredIngredients(
	recipes map[string]entities.Recipe,
	selected []string,
	baseline map[string]entities.BaselineItem,
) (map[string]Requirement, map[string]entities.BaselineItem) {
	required := make(map[string]Requirement)
	recipeOnly := make(map[string]entities.BaselineItem)

	for _, recipeName := range uniqueNames(selected) {
		recipe, ok := recipes[recipeName]
		if !ok {
			continue
		}
		for _, name := range recipe.IngredientNames() {
			entry := recipe.Ingredients[name]
			req := required[name]
			req.Quantity = req.Quantity.Add(entry.Quantity)
			req.Unit = entry.Unit
			required[name] = req

			if _, inBaseline := baseline[name]; !inBaseline {
				recipeOnly[name] = entities.BaselineItem{
					Name:     name,
					Minimum:  decimal.Zero,
					Unit:     entry.Unit,
					Category: entry.Category,
				}
			}
		}
	}
	return required, recipeOnly
}

// ActiveItems returns the union of the baseline and the recipe-only items.
// Baseline definitions win where both define the same name.
func ActiveItems(
	baseline map[string]entities.BaselineItem,
	recipeOnly map[string]entities.BaselineItem,
) map[string]entities.BaselineItem {
	active := make(map[string]entities.BaselineItem, len(baseline)+len(recipeOnly))
	for name, item := range recipeOnly {
		active[name] = item
	}
	for name, item := range baseline {
		active[name] = item
	}
	return active
}

type shortfall struct {
	quantity decimal.Decimal
	unit     entities.Unit
	category entities.Category
}

// Aggregate computes the categorized shortfall list
func (a *Aggregator) Aggregate(in AggregationInput) entities.ShoppingList {
	required, recipeOnly := RequiredIngredients(in.Recipes, in.Selected, in.Baseline)
	active := ActiveItems(in.Baseline, recipeOnly)

	resolveCategory := func(name string) entities.Category {
		if item, ok := recipeOnly[name]; ok && item.Category != "" {
			return item.Category
		}
		if item, ok := in.Baseline[name]; ok && item.Category != "" {
			return item.Category
		}
		return entities.DefaultCategory
	}

	var deficits map[string]*shortfall
	switch a.policy {
	case DemandMax:
		deficits = a.maxDemand(in.Stock, active, required, resolveCategory)
	default:
		deficits = a.additiveDemand(in.Stock, active, required, resolveCategory)
	}

	names := make([]string, 0, len(deficits))
	for name := range deficits {
		names = append(names, name)
	}
	sort.Strings(names)

	list := entities.ShoppingList{Rows: make([]entities.ShortfallRow, 0, len(names)+len(in.Extras))}
	for _, name := range names {
		d := deficits[name]
		if !d.quantity.IsPositive() {
			continue
		}
		list.Rows = append(list.Rows, entities.ShortfallRow{
			Item:     name,
			Quantity: d.quantity.Round(2),
			Unit:     d.unit,
			Category: d.category.OrDefault(),
		})
	}

	for _, extra := range in.Extras {
		list.Rows = append(list.Rows, entities.ShortfallRow{
			Item:     extra.Name,
			Quantity: extra.Quantity,
			Unit:     extra.Unit,
			Category: extra.Category.OrDefault(),
		})
	}

	list.SortRows()
	return list
}

// additiveDemand accumulates the baseline deficit and the recipe deficit independently
func (a *Aggregator) additiveDemand(
	stock map[string]decimal.Decimal,
	active map[string]entities.BaselineItem,
	required map[string]Requirement,
	resolveCategory func(string) entities.Category,
) map[string]*shortfall {
	deficits := make(map[string]*shortfall)
	get := func(name string) *shortfall {
		d, ok := deficits[name]
		if !ok {
			d = &shortfall{}
			deficits[name] = d
		}
		return d
	}

	for name, item := range active {
		onHand := stock[name]
		if onHand.LessThan(item.Minimum) {
			d := get(name)
			d.quantity = d.quantity.Add(item.Minimum.Sub(onHand).Round(2))
			d.unit = item.Unit
			d.category = item.Category.OrDefault()
		}
	}

	for name, req := range required {
		if req.Quantity.IsZero() {
			continue
		}
		onHand := stock[name]
		if onHand.LessThan(req.Quantity) {
			d := get(name)
			d.quantity = d.quantity.Add(req.Quantity.Sub(onHand).Round(2))
			d.unit = req.Unit
			d.category = resolveCategory(name)
		}
	}
	return deficits
}

// maxDemand reconciles both sources into a single demand per item
func (a *Aggregator) maxDemand(
	stock map[string]decimal.Decimal,
	active map[string]entities.BaselineItem,
	required map[string]Requirement,
	resolveCategory func(string) entities.Category,
) map[string]*shortfall {
	deficits := make(map[string]*shortfall)

	for name, item := range active {
		demand := item.Minimum
		unit := item.Unit
		if req, ok := required[name]; ok && !req.Quantity.IsZero() {
			unit = req.Unit
			demand = decimal.Max(demand, req.Quantity)
		}
		onHand := stock[name]
		if onHand.LessThan(demand) {
			deficits[name] = &shortfall{
				quantity: demand.Sub(onHand).Round(2),
				unit:     unit,
				category: resolveCategory(name),
			}
		}
	}
	return deficits
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
