package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shoplist/pkg/interfaces/cli/commands"
)

var generateConfig commands.GenerateConfig

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compute the shopping list for the selected recipes",
	Long: `Computes what is missing for the selected recipes plus the baseline list.

Example:
  shoplist generate --recipe Sopa --recipe Bolo --stock Arroz=0,5 --stock Ovo=4 \
    --extra "Pão=2:Un:Feira" --format csv --output lista_de_compras.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		generateConfig.Verbose = verbose
		return commands.NewGenerateCommand(app, generateConfig, cmd.OutOrStdout()).Execute(cmd.Context())
	},
}

func init() {
	generateCmd.Flags().StringArrayVarP(&generateConfig.Recipes, "recipe", "r", nil, "Recipe to cook (repeatable, at most 5)")
	generateCmd.Flags().StringArrayVarP(&generateConfig.Stock, "stock", "s", nil, "Quantity at home as Item=qty (repeatable)")
	generateCmd.Flags().StringArrayVarP(&generateConfig.Extras, "extra", "e", nil, "Extra item as Name=qty:Unit:Category (repeatable)")
	generateCmd.Flags().StringVarP(&generateConfig.Format, "format", "f", "text", "Output format: text, csv, json, html")
	generateCmd.Flags().StringVarP(&generateConfig.Output, "output", "o", "", "Output file (csv defaults to lista_de_compras.csv, - for stdout)")
}
