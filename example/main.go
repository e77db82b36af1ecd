package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
	"github.com/vsinha/shoplist/pkg/shoplist"
)

func main() {
	ctx := context.Background()

	// Create stores over an in-memory backend
	backend := memory.New()
	recipes := document.NewRecipeStore(backend, document.DefaultRecipesKey)
	baseline := document.NewBaselineStore(backend, document.DefaultBaselineKey)

	if err := setupKitchen(ctx, recipes, baseline); err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	planner := shoplist.NewPlanner(recipes, baseline)

	fmt.Println("🍲 Planning the week: Sopa + Omelete")
	fmt.Println("📦 At home: 0.5 Kg of rice, 2 eggs")
	fmt.Println()

	result, err := planner.Plan(ctx, shoplist.Request{
		Recipes: []string{"Sopa", "Omelete"},
		Stock: map[string]decimal.Decimal{
			"Arroz": decimal.RequireFromString("0.5"),
			"Ovo":   decimal.NewFromInt(2),
		},
		Extras: []entities.ExtraItem{
			{Name: "Pão", Quantity: decimal.NewFromInt(2), Unit: entities.UnitEach, Category: entities.CategoryProduce},
		},
	})
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}

	if err := output.WriteText(os.Stdout, result, output.DefaultStyles()); err != nil {
		fmt.Printf("❌ Rendering failed: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("📄 CSV export:")
	if err := output.WriteCSV(os.Stdout, result.List); err != nil {
		fmt.Printf("❌ CSV failed: %v\n", err)
	}
}

func setupKitchen(ctx context.Context, recipes *document.RecipeStore, baseline *document.BaselineStore) error {
	soup, err := entities.NewRecipe("Sopa", map[string]entities.Ingredient{
		"Sal":     {Quantity: decimal.RequireFromString("0.1"), Unit: entities.UnitKilo, Category: entities.CategoryCondiments},
		"Cenoura": {Quantity: decimal.NewFromInt(3), Unit: entities.UnitEach, Category: entities.CategoryProduce},
		"Arroz":   {Quantity: decimal.RequireFromString("0.5"), Unit: entities.UnitKilo, Category: entities.CategoryProduce},
	})
	if err != nil {
		return err
	}
	omelette, err := entities.NewRecipe("Omelete", map[string]entities.Ingredient{
		"Ovo":    {Quantity: decimal.NewFromInt(4), Unit: entities.UnitEach, Category: entities.CategoryDeli},
		"Queijo": {Quantity: decimal.RequireFromString("0.2"), Unit: entities.UnitKilo, Category: entities.CategoryDeli},
	})
	if err != nil {
		return err
	}
	for _, r := range []*entities.Recipe{soup, omelette} {
		if err := recipes.Upsert(ctx, *r); err != nil {
			return err
		}
	}

	staples := []entities.BaselineItem{
		{Name: "Arroz", Minimum: decimal.NewFromInt(2), Unit: entities.UnitKilo, Category: entities.CategoryOther},
		{Name: "Ovo", Minimum: decimal.NewFromInt(6), Unit: entities.UnitEach, Category: entities.CategoryDeli},
		{Name: "Detergente", Minimum: decimal.NewFromInt(2), Unit: entities.UnitEach, Category: entities.CategoryCleaning},
	}
	for _, item := range staples {
		if err := baseline.Upsert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
