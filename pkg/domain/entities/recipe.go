package entities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Ingredient represents one line of a recipe: how much of an item one use of the recipe needs
type Ingredient struct {
	Quantity decimal.Decimal
	Unit     Unit
	Category Category
}

// NewIngredient creates a validated Ingredient
func NewIngredient(quantity decimal.Decimal, unit Unit, category Category) (Ingredient, error) {
	if quantity.IsNegative() {
		return Ingredient{}, fmt.Errorf("quantity cannot be negative, got %s", quantity)
	}
	return Ingredient{Quantity: quantity, Unit: unit, Category: category}, nil
}

// Recipe maps ingredient names to the quantity required per use
type Recipe struct {
	Name        string
	Ingredients map[string]Ingredient
}

// NewRecipe creates a validated Recipe
func NewRecipe(name string, ingredients map[string]Ingredient) (*Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("recipe %s must have at least one ingredient", name)
	}
	for ingredient, entry := range ingredients {
		if strings.TrimSpace(ingredient) == "" {
			return nil, fmt.Errorf("recipe %s has an ingredient without a name", name)
		}
		if entry.Quantity.IsNegative() {
			return nil, fmt.Errorf("recipe %s: quantity of %s cannot be negative, got %s", name, ingredient, entry.Quantity)
		}
	}
	return &Recipe{Name: name, Ingredients: ingredients}, nil
}

// IngredientNames returns the ingredient names sorted alphabetically
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for name := range r.Ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the recipe
func (r Recipe) Clone() Recipe {
	ingredients := make(map[string]Ingredient, len(r.Ingredients))
	for name, entry := range r.Ingredients {
		ingredients[name] = entry
	}
	return Recipe{Name: r.Name, Ingredients: ingredients}
}
