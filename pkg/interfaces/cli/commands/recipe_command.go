package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/vsinha/shoplist/pkg/application/services/editor"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
)

// RecipeCommand edits the recipe book. Every operation requires the editor password.
type RecipeCommand struct {
	app      *App
	password string
	stdout   io.Writer
	sess     *session.Session
}

// NewRecipeCommand creates a recipe command that unlocks the editor with password
func NewRecipeCommand(app *App, password string, stdout io.Writer) *RecipeCommand {
	return &RecipeCommand{
		app:      app,
		password: password,
		stdout:   stdout,
		sess:     app.Planner.NewSession(),
	}
}

func (c *RecipeCommand) unlock() error {
	return c.app.Gate.Enter(c.sess, editor.EditorRecipes, c.password)
}

// List prints every recipe with its ingredient count
func (c *RecipeCommand) List(ctx context.Context) error {
	if err := c.unlock(); err != nil {
		return err
	}
	recipes, err := c.app.RecipeEditor.List(ctx)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Fprintln(c.stdout, "Nenhuma receita cadastrada.")
		return nil
	}
	for _, recipe := range recipes {
		fmt.Fprintf(c.stdout, "%s (%d ingredientes)\n", recipe.Name, len(recipe.Ingredients))
	}
	return nil
}

// Show prints the ingredients of one recipe
func (c *RecipeCommand) Show(ctx context.Context, name string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	recipe, ok, err := c.app.RecipeEditor.Get(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("recipe %q not found", name)
	}
	fmt.Fprintf(c.stdout, "📖 %s\n", recipe.Name)
	for _, ingredient := range recipe.IngredientNames() {
		entry := recipe.Ingredients[ingredient]
		fmt.Fprintf(c.stdout, "  %s: %s %s (%s)\n",
			ingredient, output.FormatQuantity(entry.Quantity), entry.Unit, entry.Category.OrDefault())
	}
	return nil
}

// Set creates or replaces a recipe from "Name=qty:Unit:Category" ingredients
func (c *RecipeCommand) Set(ctx context.Context, name string, ingredients []string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	form := editor.RecipeForm{Name: name}
	for _, spec := range ingredients {
		item, err := parseLineItem(spec)
		if err != nil {
			return err
		}
		form.Rows = append(form.Rows, editor.IngredientRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Category: item.Category,
		})
	}

	saved, err := c.app.RecipeEditor.Save(ctx, c.sess, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "✅ Receita %s salva com %d ingredientes.\n", saved.Name, len(saved.Ingredients))
	return nil
}

// Delete removes a recipe
func (c *RecipeCommand) Delete(ctx context.Context, name string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	if err := c.app.RecipeEditor.Delete(ctx, c.sess, name); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "🗑️ Receita %s excluída.\n", name)
	return nil
}

// Rename moves a recipe to a new name
func (c *RecipeCommand) Rename(ctx context.Context, oldName, newName string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	if err := c.app.RecipeEditor.Rename(ctx, c.sess, oldName, newName); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "✏️ Receita %s renomeada para %s.\n", oldName, newName)
	return nil
}
