package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
)

// IngredientRow is one row of the recipe form. Rows with a blank name are skipped on save.
type IngredientRow struct {
	Name     string
	Quantity decimal.Decimal
	Unit     entities.Unit
	Category entities.Category
}

// RecipeForm is the recipe create/edit form.
type RecipeForm struct {
	OriginalName string
	Name         string
	Rows         []IngredientRow
}

// AddRow appends an empty ingredient row. Rows cannot be removed, only cleared.
func (f *RecipeForm) AddRow() {
	f.Rows = append(f.Rows, IngredientRow{Quantity: decimal.Zero, Unit: entities.UnitEach, Category: entities.CategoryOther})
}

// NewRecipeForm returns an empty form with a single row.
func NewRecipeForm() RecipeForm {
	var f RecipeForm
	f.AddRow()
	return f
}

// FormFromRecipe pre-fills a form for editing, rows sorted by ingredient name.
func FormFromRecipe(recipe entities.Recipe) RecipeForm {
	f := RecipeForm{OriginalName: recipe.Name, Name: recipe.Name}
	for _, name := range recipe.IngredientNames() {
		entry := recipe.Ingredients[name]
		f.Rows = append(f.Rows, IngredientRow{
			Name:     name,
			Quantity: entry.Quantity,
			Unit:     entry.Unit,
			Category: entry.Category,
		})
	}
	if len(f.Rows) == 0 {
		f.AddRow()
	}
	return f
}

// RecipeEditor edits the recipe book.
type RecipeEditor struct {
	repo   repositories.RecipeRepository
	logger *zap.Logger
	events events.Publisher
}

// NewRecipeEditor creates a recipe editor.
func NewRecipeEditor(repo repositories.RecipeRepository, logger *zap.Logger) *RecipeEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeEditor{repo: repo, logger: logger, events: events.Discard}
}

// WithPublisher sends change events to p.
func (e *RecipeEditor) WithPublisher(p events.Publisher) *RecipeEditor {
	if p != nil {
		e.events = p
	}
	return e
}

// List returns all recipes sorted by name.
func (e *RecipeEditor) List(ctx context.Context) ([]entities.Recipe, error) {
	recipes, err := e.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns one recipe.
func (e *RecipeEditor) Get(ctx context.Context, name string) (entities.Recipe, bool, error) {
	recipes, err := e.repo.Load(ctx)
	if err != nil {
		return entities.Recipe{}, false, err
	}
	recipe, ok := recipes[name]
	return recipe, ok, nil
}

// Save validates the form and stores the recipe. A renamed recipe replaces its original entry in the same write.
func (e *RecipeEditor) Save(ctx context.Context, sess *session.Session, form RecipeForm) (*entities.Recipe, error) {
	if err := requireAccess(sess, EditorRecipes); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, invalid("Digite o nome da receita.", ErrNameRequired)
	}

	ingredients := make(map[string]entities.Ingredient)
	for _, row := range form.Rows {
		rowName := strings.TrimSpace(row.Name)
		if rowName == "" {
			continue
		}
		entry, err := entities.NewIngredient(row.Quantity, row.Unit, row.Category)
		if err != nil {
			return nil, invalid(fmt.Sprintf("Ingrediente %s: %v", rowName, err), err)
		}
		ingredients[rowName] = entry
	}
	if len(ingredients) == 0 {
		return nil, invalid("Adicione ao menos um ingrediente.", ErrNoIngredients)
	}

	recipe, err := entities.NewRecipe(name, ingredients)
	if err != nil {
		return nil, invalid(err.Error(), err)
	}

	original := strings.TrimSpace(form.OriginalName)
	if err := e.repo.Replace(ctx, original, *recipe); err != nil {
		return nil, fmt.Errorf("failed to save recipe %s: %w", recipe.Name, err)
	}

	e.logger.Info("recipe saved",
		zap.String("session", sess.ID),
		zap.String("recipe", recipe.Name),
		zap.String("previous_name", original),
		zap.Int("ingredients", len(recipe.Ingredients)),
	)
	e.publish(events.NewRecipeSavedEvent(events.RecipeSaved{
		Name:         recipe.Name,
		PreviousName: original,
		Ingredients:  len(recipe.Ingredients),
		Session:      sess.ID,
	}))
	return recipe, nil
}

// Delete removes a recipe.
func (e *RecipeEditor) Delete(ctx context.Context, sess *session.Session, name string) error {
	if err := requireAccess(sess, EditorRecipes); err != nil {
		return err
	}
	if err := e.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", name, err)
	}
	e.logger.Info("recipe deleted", zap.String("session", sess.ID), zap.String("recipe", name))
	e.publish(events.NewRecipeDeletedEvent(events.RecipeDeleted{Name: name, Session: sess.ID}))
	return nil
}

// Rename moves a recipe to a new name without touching its ingredients.
func (e *RecipeEditor) Rename(ctx context.Context, sess *session.Session, oldName, newName string) error {
	if err := requireAccess(sess, EditorRecipes); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return invalid("Digite o nome da receita.", ErrNameRequired)
	}
	if err := e.repo.Rename(ctx, oldName, newName); err != nil {
		return fmt.Errorf("failed to rename recipe %s: %w", oldName, err)
	}
	e.logger.Info("recipe renamed", zap.String("session", sess.ID), zap.String("from", oldName), zap.String("to", newName))
	e.publish(events.NewRecipeRenamedEvent(events.RecipeRenamed{From: oldName, To: newName, Session: sess.ID}))
	return nil
}

func (e *RecipeEditor) publish(event events.Event) {
	if err := e.events.AppendEvent(event.StreamID(), event); err != nil {
		e.logger.Warn("failed to record event", zap.String("event", event.Type()), zap.Error(err))
	}
}
