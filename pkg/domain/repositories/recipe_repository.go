package repositories

import (
	"context"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// RecipeRepository provides access to the recipe book.
// Every mutation persists the whole book.
type RecipeRepository interface {
	Load(ctx context.Context) (map[string]entities.Recipe, error)
	Save(ctx context.Context, recipes map[string]entities.Recipe) error
	Upsert(ctx context.Context, recipe entities.Recipe) error
	// Replace upserts recipe and drops oldName atomically, for a save that renames.
	Replace(ctx context.Context, oldName string, recipe entities.Recipe) error
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}
