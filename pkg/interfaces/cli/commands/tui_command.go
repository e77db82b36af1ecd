package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/vsinha/shoplist/pkg/interfaces/tui"
)

// TUIConfig holds the starting state of a terminal session
type TUIConfig struct {
	Recipes []string
	Export  string // CSV path written by ctrl+e
}

// TUICommand runs the interactive stock-entry session
type TUICommand struct {
	config TUIConfig
	app    *App
	stdout io.Writer
}

// NewTUICommand creates a tui command
func NewTUICommand(app *App, config TUIConfig, stdout io.Writer) *TUICommand {
	return &TUICommand{config: config, app: app, stdout: stdout}
}

// Model prepares the session and the bubbletea model without starting the terminal program
func (c *TUICommand) Model(ctx context.Context) (tui.Model, error) {
	service := c.app.Planner.Service()
	sess := c.app.Planner.NewSession()
	if err := service.Select(ctx, sess, c.config.Recipes); err != nil {
		return tui.Model{}, fmt.Errorf("failed to select recipes: %w", err)
	}
	return tui.NewModel(ctx, service, sess, c.config.Export)
}

// Execute runs the terminal program and prints a summary after it exits
func (c *TUICommand) Execute(ctx context.Context) error {
	model, err := c.Model(ctx)
	if err != nil {
		return err
	}
	final, err := tui.Run(ctx, model)
	if err != nil {
		return fmt.Errorf("terminal session failed: %w", err)
	}
	if result := final.Result(); result != nil {
		fmt.Fprintf(c.stdout, "🛒 %d itens na última lista gerada.\n", result.List.Len())
	}
	return nil
}
