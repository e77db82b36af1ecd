package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/shoplist/pkg/interfaces/cli/commands"
)

var (
	password string

	recipeIngredients []string
	baselineItem      commands.BaselineItemConfig
)

// editorPassword returns --password, or prompts for it on stdin.
func editorPassword(cmd *cobra.Command) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// =============================================================================
// RECIPES
// =============================================================================

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Edit the recipe book (password protected)",
	Long: `List and edit recipes.

Subcommands:
  list                      - List all recipes
  show <name>               - Show a recipe's ingredients
  set <name> --ingredient   - Create or replace a recipe
  delete <name>             - Delete a recipe
  rename <old> <new>        - Rename a recipe`,
}

func withRecipeCommand(run func(cmd *cobra.Command, rc *commands.RecipeCommand, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		pw, err := editorPassword(cmd)
		if err != nil {
			return err
		}
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, commands.NewRecipeCommand(app, pw, cmd.OutOrStdout()), args)
	}
}

var recipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recipes",
	RunE: withRecipeCommand(func(cmd *cobra.Command, rc *commands.RecipeCommand, _ []string) error {
		return rc.List(cmd.Context())
	}),
}

var recipeShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: withRecipeCommand(func(cmd *cobra.Command, rc *commands.RecipeCommand, args []string) error {
		return rc.Show(cmd.Context(), args[0])
	}),
}

var recipeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or replace a recipe",
	Long: `Creates or replaces a recipe.

Example:
  shoplist recipe set Sopa --ingredient "Sal=0.1:Kg:Condimentos" --ingredient "Cenoura=3:Un:Feira"`,
	Args: cobra.ExactArgs(1),
	RunE: withRecipeCommand(func(cmd *cobra.Command, rc *commands.RecipeCommand, args []string) error {
		return rc.Set(cmd.Context(), args[0], recipeIngredients)
	}),
}

var recipeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: withRecipeCommand(func(cmd *cobra.Command, rc *commands.RecipeCommand, args []string) error {
		return rc.Delete(cmd.Context(), args[0])
	}),
}

var recipeRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a recipe",
	Args:  cobra.ExactArgs(2),
	RunE: withRecipeCommand(func(cmd *cobra.Command, rc *commands.RecipeCommand, args []string) error {
		return rc.Rename(cmd.Context(), args[0], args[1])
	}),
}

// =============================================================================
// BASELINE
// =============================================================================

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Edit the baseline list (password protected)",
}

func withBaselineCommand(run func(cmd *cobra.Command, bc *commands.BaselineCommand, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		pw, err := editorPassword(cmd)
		if err != nil {
			return err
		}
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, commands.NewBaselineCommand(app, pw, cmd.OutOrStdout()), args)
	}
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List baseline items",
	RunE: withBaselineCommand(func(cmd *cobra.Command, bc *commands.BaselineCommand, _ []string) error {
		return bc.List(cmd.Context())
	}),
}

var baselineSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or replace a baseline item",
	Args:  cobra.ExactArgs(1),
	RunE: withBaselineCommand(func(cmd *cobra.Command, bc *commands.BaselineCommand, args []string) error {
		item := baselineItem
		item.Name = args[0]
		return bc.Set(cmd.Context(), item)
	}),
}

var baselineDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a baseline item",
	Args:  cobra.ExactArgs(1),
	RunE: withBaselineCommand(func(cmd *cobra.Command, bc *commands.BaselineCommand, args []string) error {
		return bc.Delete(cmd.Context(), args[0])
	}),
}

var baselineRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a baseline item",
	Args:  cobra.ExactArgs(2),
	RunE: withBaselineCommand(func(cmd *cobra.Command, bc *commands.BaselineCommand, args []string) error {
		return bc.Rename(cmd.Context(), args[0], args[1])
	}),
}

func init() {
	for _, c := range []*cobra.Command{recipeCmd, baselineCmd} {
		c.PersistentFlags().StringVarP(&password, "password", "p", "", "Editor password (prompted when omitted)")
	}

	recipeSetCmd.Flags().StringArrayVarP(&recipeIngredients, "ingredient", "i", nil, "Ingredient as Name=qty:Unit:Category (repeatable)")
	recipeCmd.AddCommand(recipeListCmd, recipeShowCmd, recipeSetCmd, recipeDeleteCmd, recipeRenameCmd)

	baselineSetCmd.Flags().StringVar(&baselineItem.Quantity, "qty", "1", "Minimum quantity to keep at home")
	baselineSetCmd.Flags().StringVar(&baselineItem.Unit, "unit", "Un", "Unit: Un, Pct, Kg, L")
	baselineSetCmd.Flags().StringVar(&baselineItem.Category, "category", "Outros", "Store section")
	baselineCmd.AddCommand(baselineListCmd, baselineSetCmd, baselineDeleteCmd, baselineRenameCmd)
}
