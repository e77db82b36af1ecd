package main

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/shoplist/pkg/interfaces/cli/commands"
)

var (
	serveAddr string

	tuiConfig commands.TUIConfig
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return commands.NewServeCommand(app, serveAddr).Execute(cmd.Context())
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Enter stock levels in the terminal and export the list",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return commands.NewTUICommand(app, tuiConfig, cmd.OutOrStdout()).Execute(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr from the config)")

	tuiCmd.Flags().StringArrayVarP(&tuiConfig.Recipes, "recipe", "r", nil, "Recipe to cook (repeatable, at most 5)")
	tuiCmd.Flags().StringVarP(&tuiConfig.Export, "export", "o", "", "CSV file written by ctrl+e (default lista_de_compras.csv)")
}
