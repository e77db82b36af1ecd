// Package shoplist is a one-call entry point for turning stored recipes and
// baseline items into a shopping list, without managing sessions by hand.
package shoplist

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/application/services"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
)

// ErrUnknownRecipe is returned when a request names a recipe that is not stored.
var ErrUnknownRecipe = errors.New("unknown recipe")

// PlannerConfig holds the tunables of a Planner
type PlannerConfig struct {
	Policy     domainservices.DemandPolicy
	MaxRecipes int
	Logger     *zap.Logger
	Publisher  events.Publisher
}

// Request describes one shopping run
type Request struct {
	Recipes []string
	Stock   map[string]decimal.Decimal
	Extras  []entities.ExtraItem
}

// Planner runs single-shot generations against the record stores
type Planner struct {
	service    *services.ShoppingService
	maxRecipes int
}

// NewPlanner creates a planner with the additive policy and the default recipe cap
func NewPlanner(recipes repositories.RecipeRepository, baseline repositories.BaselineRepository) *Planner {
	return NewPlannerWithConfig(recipes, baseline, PlannerConfig{
		Policy:     domainservices.DemandAdditive,
		MaxRecipes: session.MaxSelectedRecipes,
	})
}

// NewPlannerWithConfig creates a planner with custom configuration
func NewPlannerWithConfig(
	recipes repositories.RecipeRepository,
	baseline repositories.BaselineRepository,
	config PlannerConfig,
) *Planner {
	service := services.NewShoppingService(
		recipes,
		baseline,
		domainservices.NewAggregator(config.Policy),
		config.Logger,
	).WithPublisher(config.Publisher)
	return &Planner{service: service, maxRecipes: config.MaxRecipes}
}

// Service exposes the underlying shopping service for session-based callers
func (p *Planner) Service() *services.ShoppingService {
	return p.service
}

// NewSession starts an interactive session with the planner's recipe cap
func (p *Planner) NewSession() *session.Session {
	return session.NewWithLimit(uuid.NewString(), p.maxRecipes)
}

// Plan generates the shopping list for req in a throwaway session
func (p *Planner) Plan(ctx context.Context, req Request) (*dto.ShoppingResult, error) {
	known, err := p.service.RecipeNames(ctx)
	if err != nil {
		return nil, err
	}
	if unknown := missing(req.Recipes, known); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownRecipe, unknown)
	}

	sess := p.NewSession()
	if err := p.service.Select(ctx, sess, req.Recipes); err != nil {
		return nil, err
	}
	if _, err := p.service.StockRows(ctx, sess); err != nil {
		return nil, err
	}

	items := make([]string, 0, len(req.Stock))
	for item := range req.Stock {
		items = append(items, item)
	}
	sort.Strings(items)
	for _, item := range items {
		if err := p.service.SetStock(sess, item, req.Stock[item]); err != nil {
			return nil, fmt.Errorf("stock of %s: %w", item, err)
		}
	}

	for _, extra := range req.Extras {
		if _, err := p.service.AddExtra(sess, extra.Name, extra.Quantity, extra.Unit, extra.Category); err != nil {
			return nil, fmt.Errorf("extra item %q: %w", extra.Name, err)
		}
	}

	return p.service.Generate(ctx, sess)
}

func missing(requested, known []string) []string {
	set := make(map[string]struct{}, len(known))
	for _, name := range known {
		set[name] = struct{}{}
	}
	var out []string
	for _, name := range requested {
		if _, ok := set[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
