package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/shoplist/internal/config"
	"github.com/vsinha/shoplist/internal/logging"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/commands"
)

var (
	// Global flags
	configPath string
	verbose    bool
	dataDir    string
	driver     string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shoplist",
	Short: "Household shopping-list generator",
	Long: `shoplist turns the week's recipes and the household's baseline list into
a shopping list of what is missing from the pantry, grouped by store section.

Recipes live in receitas.json and the baseline in lista_base.json; both can be
edited (password protected) from the CLI or the web interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.Data.Dir = dataDir
		}
		if driver != "" {
			cfg.Data.Driver = driver
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding receitas.json and lista_base.json (fs driver)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Storage driver: fs, sqlite, s3 or memory")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(recipeCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
}

// openApp wires the application for a command run
func openApp(ctx context.Context) (*commands.App, error) {
	return commands.NewApp(ctx, cfg, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
