package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
)

// DefaultRecipesKey is the document key of the recipe book.
const DefaultRecipesKey = "receitas.json"

// RecipeStore persists recipes as {recipe: {ingredient: [quantity, unit, category]}}.
type RecipeStore struct {
	store *recordStore[entities.Recipe]
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeStore)(nil)

// NewRecipeStore creates a recipe store over backend under key.
func NewRecipeStore(backend storage.Backend, key string, opts ...Option) *RecipeStore {
	if key == "" {
		key = DefaultRecipesKey
	}
	return &RecipeStore{store: newRecordStore[entities.Recipe]("recipes", key, backend, recipeCodec{}, opts)}
}

// Load returns all recipes; an absent document yields an empty book.
func (r *RecipeStore) Load(ctx context.Context) (map[string]entities.Recipe, error) {
	return r.store.load(ctx)
}

// Save overwrites the whole recipe book.
func (r *RecipeStore) Save(ctx context.Context, recipes map[string]entities.Recipe) error {
	return r.store.save(ctx, recipes)
}

// Upsert inserts or replaces a recipe under its name.
func (r *RecipeStore) Upsert(ctx context.Context, recipe entities.Recipe) error {
	return r.store.upsert(ctx, recipe.Name, recipe)
}

// Replace saves recipe and removes oldName in one write.
func (r *RecipeStore) Replace(ctx context.Context, oldName string, recipe entities.Recipe) error {
	return r.store.replace(ctx, oldName, recipe.Name, recipe)
}

// Delete removes a recipe; deleting an unknown name is a no-op.
func (r *RecipeStore) Delete(ctx context.Context, name string) error {
	return r.store.delete(ctx, name)
}

// Rename moves a recipe to a new name.
func (r *RecipeStore) Rename(ctx context.Context, oldName, newName string) error {
	return r.store.rename(ctx, oldName, newName)
}

// Invalidate forces the next Load to re-read the document.
func (r *RecipeStore) Invalidate() {
	r.store.invalidate()
}

type recipeCodec struct{}

func (recipeCodec) decode(data []byte) (map[string]entities.Recipe, error) {
	var raw map[string]map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	recipes := make(map[string]entities.Recipe, len(raw))
	for name, ingredients := range raw {
		recipe := entities.Recipe{Name: name, Ingredients: make(map[string]entities.Ingredient, len(ingredients))}
		for ingredient, tuple := range ingredients {
			entry, err := decodeIngredient(tuple)
			if err != nil {
				return nil, fmt.Errorf("recipe %q, ingredient %q: %w", name, ingredient, err)
			}
			recipe.Ingredients[ingredient] = entry
		}
		recipes[name] = recipe
	}
	return recipes, nil
}

// decodeIngredient reads [quantity, unit, category]; missing trailing elements stay empty.
func decodeIngredient(tuple []json.RawMessage) (entities.Ingredient, error) {
	var entry entities.Ingredient
	if len(tuple) == 0 {
		return entry, fmt.Errorf("empty ingredient entry")
	}
	if len(tuple) > 3 {
		return entry, fmt.Errorf("expected [quantity, unit, category], got %d elements", len(tuple))
	}
	var qty json.Number
	if err := json.Unmarshal(tuple[0], &qty); err != nil {
		return entry, fmt.Errorf("invalid quantity: %w", err)
	}
	quantity, err := parseNumber(qty)
	if err != nil {
		return entry, err
	}
	entry.Quantity = quantity
	if len(tuple) > 1 {
		var unit string
		if err := json.Unmarshal(tuple[1], &unit); err != nil {
			return entry, fmt.Errorf("invalid unit: %w", err)
		}
		entry.Unit = entities.Unit(unit)
	}
	if len(tuple) > 2 {
		var category string
		if err := json.Unmarshal(tuple[2], &category); err != nil {
			return entry, fmt.Errorf("invalid category: %w", err)
		}
		entry.Category = entities.Category(category)
	}
	return entry, nil
}

func (recipeCodec) encode(recipes map[string]entities.Recipe) ([]byte, error) {
	raw := make(map[string]map[string][]any, len(recipes))
	for name, recipe := range recipes {
		ingredients := make(map[string][]any, len(recipe.Ingredients))
		for ingredient, entry := range recipe.Ingredients {
			ingredients[ingredient] = []any{number(entry.Quantity), string(entry.Unit), string(entry.Category)}
		}
		raw[name] = ingredients
	}
	return marshalIndented(raw)
}

func (recipeCodec) clone(r entities.Recipe) entities.Recipe {
	return r.Clone()
}

func (recipeCodec) rename(r entities.Recipe, name string) entities.Recipe {
	r.Name = name
	return r
}
