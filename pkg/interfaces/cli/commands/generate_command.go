package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
	"github.com/vsinha/shoplist/pkg/shoplist"
)

// GenerateConfig holds the inputs of one shopping run
type GenerateConfig struct {
	Recipes []string // Selected recipe names
	Stock   []string // "Item=qty" pairs
	Extras  []string // "Name=qty:Unit:Category" items
	Format  string   // text, csv, json or html
	Output  string   // Output file; "-" forces stdout
	Verbose bool
}

// GenerateCommand computes a shopping list from flags and renders it
type GenerateCommand struct {
	config GenerateConfig
	app    *App
	stdout io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(app *App, config GenerateConfig, stdout io.Writer) *GenerateCommand {
	return &GenerateCommand{config: config, app: app, stdout: stdout}
}

// Execute runs the generate command
func (c *GenerateCommand) Execute(ctx context.Context) error {
	stock, err := parseStock(c.config.Stock)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	extras, err := parseExtras(c.config.Extras)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.stdout, "📖 Receitas: %s\n", strings.Join(c.config.Recipes, ", "))
		fmt.Fprintf(c.stdout, "📦 Itens em estoque informados: %d\n", len(stock))
	}

	result, err := c.app.Planner.Plan(ctx, shoplist.Request{
		Recipes: c.config.Recipes,
		Stock:   stock,
		Extras:  extras,
	})
	if err != nil {
		return fmt.Errorf("failed to generate shopping list: %w", err)
	}
	c.app.Logger.Debug("list ready",
		zap.Int("rows", result.List.Len()),
		zap.String("format", c.config.Format),
	)

	return output.Generate(result, output.Config{
		Format:  c.config.Format,
		Path:    c.config.Output,
		Verbose: c.config.Verbose,
	}, c.stdout)
}
