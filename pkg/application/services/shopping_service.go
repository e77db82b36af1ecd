package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
)

// ShoppingService binds the record stores, a session and the aggregator together
type ShoppingService struct {
	recipes    repositories.RecipeRepository
	baseline   repositories.BaselineRepository
	aggregator *domainservices.Aggregator
	logger     *zap.Logger
	events     events.Publisher
	now        func() time.Time
}

// NewShoppingService creates a shopping service. A nil logger disables logging.
func NewShoppingService(
	recipes repositories.RecipeRepository,
	baseline repositories.BaselineRepository,
	aggregator *domainservices.Aggregator,
	logger *zap.Logger,
) *ShoppingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aggregator == nil {
		aggregator = domainservices.NewAggregator(domainservices.DemandAdditive)
	}
	return &ShoppingService{
		recipes:    recipes,
		baseline:   baseline,
		aggregator: aggregator,
		logger:     logger,
		events:     events.Discard,
		now:        time.Now,
	}
}

// WithPublisher records generation and reset events to p.
func (s *ShoppingService) WithPublisher(p events.Publisher) *ShoppingService {
	if p != nil {
		s.events = p
	}
	return s
}

// RecipeNames returns every recipe name in alphabetical order
func (s *ShoppingService) RecipeNames(ctx context.Context) ([]string, error) {
	recipes, err := s.recipes.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(recipes))
	for name := range recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Select replaces the session's recipe selection. Names that are not in the
// recipe book are ignored; more than the session cap is rejected.
func (s *ShoppingService) Select(ctx context.Context, sess *session.Session, names []string) error {
	recipes, err := s.recipes.Load(ctx)
	if err != nil {
		return err
	}
	known := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := recipes[name]; ok {
			known = append(known, name)
		}
	}
	if err := sess.Select(known); err != nil {
		return err
	}
	s.logger.Debug("recipes selected",
		zap.String("session", sess.ID),
		zap.Strings("recipes", sess.Selected()),
	)
	return nil
}

// StockRows reseeds the session's stock with the active items and returns one
// row per item for the stock form, labelled with the item's unit.
func (s *ShoppingService) StockRows(ctx context.Context, sess *session.Session) ([]dto.StockRow, error) {
	recipes, baseline, err := s.loadStores(ctx)
	if err != nil {
		return nil, err
	}

	units := make(map[string]entities.Unit, len(baseline))
	for name, item := range baseline {
		units[name] = item.Unit
	}
	for _, recipeName := range sess.Selected() {
		recipe, ok := recipes[recipeName]
		if !ok {
			continue
		}
		for ingredient, entry := range recipe.Ingredients {
			if unit, seen := units[ingredient]; !seen || unit == "" {
				units[ingredient] = entry.Unit
			}
		}
	}

	items := make([]string, 0, len(units))
	for name := range units {
		items = append(items, name)
	}
	sort.Strings(items)
	sess.Stock().Reseed(items)

	rows := make([]dto.StockRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, dto.StockRow{
			Item:     item,
			Unit:     units[item],
			Quantity: sess.Stock().Get(item),
		})
	}
	return rows, nil
}

// SetStock records the on-hand quantity of an item
func (s *ShoppingService) SetStock(sess *session.Session, item string, quantity decimal.Decimal) error {
	return sess.Stock().Set(item, quantity)
}

// AddExtra validates and appends a manual item to the session
func (s *ShoppingService) AddExtra(
	sess *session.Session,
	name string,
	quantity decimal.Decimal,
	unit entities.Unit,
	category entities.Category,
) (*entities.ExtraItem, error) {
	extra, err := entities.NewExtraItem(name, quantity, unit, category)
	if err != nil {
		return nil, err
	}
	sess.AddExtra(*extra)
	s.logger.Debug("extra item added",
		zap.String("session", sess.ID),
		zap.String("item", extra.Name),
	)
	return extra, nil
}

// Generate computes the shopping list for the session
func (s *ShoppingService) Generate(ctx context.Context, sess *session.Session) (*dto.ShoppingResult, error) {
	start := s.now()
	recipes, baseline, err := s.loadStores(ctx)
	if err != nil {
		return nil, err
	}

	required, _ := domainservices.RequiredIngredients(recipes, sess.Selected(), baseline)
	needed := make([]string, 0, len(required))
	for name := range required {
		needed = append(needed, name)
	}
	sess.Stock().Reseed(needed)

	list := s.aggregator.Aggregate(domainservices.AggregationInput{
		Recipes:  recipes,
		Selected: sess.Selected(),
		Baseline: baseline,
		Stock:    sess.Stock().Levels(),
		Extras:   sess.Extras(),
	})

	s.logger.Info("shopping list generated",
		zap.String("session", sess.ID),
		zap.Int("recipes", len(sess.Selected())),
		zap.Int("rows", list.Len()),
		zap.String("policy", s.aggregator.Policy().String()),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	s.publish(events.NewListGeneratedEvent(events.ListGenerated{
		Session: sess.ID,
		Recipes: sess.Selected(),
		Rows:    list.Len(),
		Policy:  s.aggregator.Policy().String(),
	}))

	return &dto.ShoppingResult{
		List:        list,
		Selected:    sess.Selected(),
		Policy:      s.aggregator.Policy().String(),
		GeneratedAt: s.now(),
	}, nil
}

// Reset clears the session back to the baseline items with zero stock
func (s *ShoppingService) Reset(ctx context.Context, sess *session.Session) error {
	baseline, err := s.baseline.Load(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(baseline))
	for name := range baseline {
		names = append(names, name)
	}
	sess.Reset(names)
	s.logger.Info("session reset", zap.String("session", sess.ID))
	s.publish(events.NewSessionResetEvent(events.SessionReset{Session: sess.ID}))
	return nil
}

func (s *ShoppingService) publish(event events.Event) {
	if err := s.events.AppendEvent(event.StreamID(), event); err != nil {
		s.logger.Warn("failed to record event", zap.String("event", event.Type()), zap.Error(err))
	}
}

func (s *ShoppingService) loadStores(ctx context.Context) (map[string]entities.Recipe, map[string]entities.BaselineItem, error) {
	recipes, err := s.recipes.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	baseline, err := s.baseline.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load baseline items: %w", err)
	}
	return recipes, baseline, nil
}
