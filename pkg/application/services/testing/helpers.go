package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
)

// mustCreateRecipe is a helper for tests - panics on validation error
func mustCreateRecipe(name string, ingredients map[string]entities.Ingredient) entities.Recipe {
	recipe, err := entities.NewRecipe(name, ingredients)
	if err != nil {
		panic(err)
	}
	return *recipe
}

// mustCreateBaselineItem is a helper for tests - panics on validation error
func mustCreateBaselineItem(name, minimum string, unit entities.Unit, category entities.Category) entities.BaselineItem {
	item, err := entities.NewBaselineItem(name, decimal.RequireFromString(minimum), unit, category)
	if err != nil {
		panic(err)
	}
	return *item
}

// Ingredient builds an ingredient entry from a decimal string
func Ingredient(quantity string, unit entities.Unit, category entities.Category) entities.Ingredient {
	return entities.Ingredient{Quantity: decimal.RequireFromString(quantity), Unit: unit, Category: category}
}

// BuildKitchenTestData creates stores with a small recipe book and baseline list:
//
//	Recipes:  Sopa (Sal 0.1 Kg, Cenoura 3 Un, Arroz 0.5 Kg), Bolo (Ovo 3 Un, Farinha 0.5 Kg)
//	Baseline: Arroz 2 Kg (Outros), Detergente 2 Un (Limpeza), Ovo 6 Un (Frios)
func BuildKitchenTestData() (*document.RecipeStore, *document.BaselineStore, *memory.Store) {
	backend := memory.New()
	recipes := document.NewRecipeStore(backend, "")
	baseline := document.NewBaselineStore(backend, "")
	ctx := context.Background()

	book := map[string]entities.Recipe{
		"Sopa": mustCreateRecipe("Sopa", map[string]entities.Ingredient{
			"Sal":     Ingredient("0.1", entities.UnitKilo, entities.CategoryCondiments),
			"Cenoura": Ingredient("3", entities.UnitEach, entities.CategoryProduce),
			"Arroz":   Ingredient("0.5", entities.UnitKilo, entities.CategoryProduce),
		}),
		"Bolo": mustCreateRecipe("Bolo", map[string]entities.Ingredient{
			"Ovo":     Ingredient("3", entities.UnitEach, entities.CategoryDeli),
			"Farinha": Ingredient("0.5", entities.UnitKilo, entities.CategoryOther),
		}),
	}
	if err := recipes.Save(ctx, book); err != nil {
		panic(err)
	}

	staples := map[string]entities.BaselineItem{
		"Arroz":      mustCreateBaselineItem("Arroz", "2", entities.UnitKilo, entities.CategoryOther),
		"Detergente": mustCreateBaselineItem("Detergente", "2", entities.UnitEach, entities.CategoryCleaning),
		"Ovo":        mustCreateBaselineItem("Ovo", "6", entities.UnitEach, entities.CategoryDeli),
	}
	if err := baseline.Save(ctx, staples); err != nil {
		panic(err)
	}

	return recipes, baseline, backend
}
