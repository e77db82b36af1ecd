package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/vsinha/shoplist/pkg/application/services/editor"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
)

// BaselineItemConfig describes one baseline item from flags
type BaselineItemConfig struct {
	Name     string
	Quantity string
	Unit     string
	Category string
}

// BaselineCommand edits the baseline list. Every operation requires the editor password.
type BaselineCommand struct {
	app      *App
	password string
	stdout   io.Writer
	sess     *session.Session
}

// NewBaselineCommand creates a baseline command that unlocks the editor with password
func NewBaselineCommand(app *App, password string, stdout io.Writer) *BaselineCommand {
	return &BaselineCommand{
		app:      app,
		password: password,
		stdout:   stdout,
		sess:     app.Planner.NewSession(),
	}
}

func (c *BaselineCommand) unlock() error {
	return c.app.Gate.Enter(c.sess, editor.EditorBaseline, c.password)
}

// List prints the baseline sorted by name
func (c *BaselineCommand) List(ctx context.Context) error {
	if err := c.unlock(); err != nil {
		return err
	}
	items, err := c.app.BaselineEditor.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(c.stdout, "A lista base está vazia.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(c.stdout, "%s: %s %s (%s)\n",
			item.Name, output.FormatQuantity(item.Minimum), item.Unit, item.Category.OrDefault())
	}
	return nil
}

// Set creates or replaces a baseline item
func (c *BaselineCommand) Set(ctx context.Context, item BaselineItemConfig) error {
	if err := c.unlock(); err != nil {
		return err
	}
	minimum, err := entities.ParseQuantity(item.Quantity)
	if err != nil {
		return err
	}
	unit := entities.UnitEach
	if item.Unit != "" {
		if unit, err = entities.ParseUnit(item.Unit); err != nil {
			return err
		}
	}
	category := entities.DefaultCategory
	if item.Category != "" {
		if category, err = entities.ParseCategory(item.Category); err != nil {
			return err
		}
	}

	saved, err := c.app.BaselineEditor.Save(ctx, c.sess, editor.BaselineForm{
		Name:     item.Name,
		Minimum:  minimum,
		Unit:     unit,
		Category: category,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "✅ %s: mínimo %s %s salvo.\n", saved.Name, output.FormatQuantity(saved.Minimum), saved.Unit)
	return nil
}

// Delete removes a baseline item
func (c *BaselineCommand) Delete(ctx context.Context, name string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	if err := c.app.BaselineEditor.Delete(ctx, c.sess, name); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "🗑️ Item %s excluído.\n", name)
	return nil
}

// Rename moves a baseline item to a new name, keeping its values
func (c *BaselineCommand) Rename(ctx context.Context, oldName, newName string) error {
	if err := c.unlock(); err != nil {
		return err
	}
	if err := c.app.BaselineEditor.Rename(ctx, c.sess, oldName, newName); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "✏️ Item %s renomeado para %s.\n", oldName, newName)
	return nil
}
