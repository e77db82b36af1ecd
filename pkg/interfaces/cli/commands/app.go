// Package commands implements the shoplist subcommands. Each command takes a
// Config and an *App and does its work in Execute.
package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shoplist/internal/config"
	"github.com/vsinha/shoplist/pkg/application/services/editor"
	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/infrastructure/metrics"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
	"github.com/vsinha/shoplist/pkg/shoplist"
)

// App is the wired object graph shared by every command.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend storage.Backend

	Recipes  *document.RecipeStore
	Baseline *document.BaselineStore

	Events  *events.InMemoryEventStore
	Metrics *metrics.Metrics

	Planner        *shoplist.Planner
	RecipeEditor   *editor.RecipeEditor
	BaselineEditor *editor.BaselineEditor
	Gate           *editor.Gate
}

// NewApp opens the configured backend and builds stores, services and editors on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.DemandPolicy()
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Data.Driver, err)
	}
	return newAppWithBackend(cfg, logger, backend, ttl, policy), nil
}

// NewAppWithBackend wires an App over an already opened backend.
func NewAppWithBackend(cfg *config.Config, logger *zap.Logger, backend storage.Backend) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.DemandPolicy()
	if err != nil {
		return nil, err
	}
	return newAppWithBackend(cfg, logger, backend, ttl, policy), nil
}

func newAppWithBackend(
	cfg *config.Config,
	logger *zap.Logger,
	backend storage.Backend,
	ttl time.Duration,
	policy domainservices.DemandPolicy,
) *App {
	m := metrics.New()
	store := events.NewInMemoryEventStore(logger)
	if err := store.Subscribe(events.AllEventTypes, m); err != nil {
		logger.Warn("metrics not subscribed to events", zap.Error(err))
	}

	storeOpts := []document.Option{
		document.WithTTL(ttl),
		document.WithLogger(logger),
		document.WithObserver(m),
	}
	recipes := document.NewRecipeStore(backend, cfg.Data.RecipesKey, storeOpts...)
	baseline := document.NewBaselineStore(backend, cfg.Data.BaselineKey, storeOpts...)

	planner := shoplist.NewPlannerWithConfig(recipes, baseline, shoplist.PlannerConfig{
		Policy:     policy,
		MaxRecipes: cfg.Shopping.MaxRecipes,
		Logger:     logger,
		Publisher:  store,
	})

	logger.Debug("application wired",
		zap.String("driver", string(backend.Driver())),
		zap.String("recipes_key", cfg.Data.RecipesKey),
		zap.String("baseline_key", cfg.Data.BaselineKey),
		zap.Duration("cache_ttl", ttl),
		zap.String("policy", policy.String()),
	)

	return &App{
		Config:         cfg,
		Logger:         logger,
		Backend:        backend,
		Recipes:        recipes,
		Baseline:       baseline,
		Events:         store,
		Metrics:        m,
		Planner:        planner,
		RecipeEditor:   editor.NewRecipeEditor(recipes, logger).WithPublisher(store),
		BaselineEditor: editor.NewBaselineEditor(baseline, logger).WithPublisher(store),
		Gate:           editor.NewGate(editor.StaticPassword(cfg.Editor.Password)),
	}
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Close()
}
