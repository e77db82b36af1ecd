package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shoplist/pkg/application/session"
	testhelpers "github.com/vsinha/shoplist/pkg/application/services/testing"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
)

func newTestShoppingService() *ShoppingService {
	recipes, baseline, _ := testhelpers.BuildKitchenTestData()
	return NewShoppingService(recipes, baseline, domainservices.NewAggregator(domainservices.DemandAdditive), nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestShoppingService_Generate_FullRun(t *testing.T) {
	ctx := context.Background()
	service := newTestShoppingService()
	sess := session.New("test")

	require.NoError(t, service.Select(ctx, sess, []string{"Sopa", "Bolo"}))
	_, err := service.StockRows(ctx, sess)
	require.NoError(t, err)
	require.NoError(t, service.SetStock(sess, "Arroz", dec("1")))
	require.NoError(t, service.SetStock(sess, "Ovo", dec("2")))

	result, err := service.Generate(ctx, sess)
	require.NoError(t, err)

	expected := []entities.ShortfallRow{
		{Item: "Sal", Quantity: dec("0.1"), Unit: entities.UnitKilo, Category: entities.CategoryCondiments},
		{Item: "Cenoura", Quantity: dec("3"), Unit: entities.UnitEach, Category: entities.CategoryProduce},
		{Item: "Ovo", Quantity: dec("5"), Unit: entities.UnitEach, Category: entities.CategoryDeli},
		{Item: "Detergente", Quantity: dec("2"), Unit: entities.UnitEach, Category: entities.CategoryCleaning},
		{Item: "Arroz", Quantity: dec("1"), Unit: entities.UnitKilo, Category: entities.CategoryOther},
		{Item: "Farinha", Quantity: dec("0.5"), Unit: entities.UnitKilo, Category: entities.CategoryOther},
	}
	if diff := cmp.Diff(expected, result.List.Rows); diff != "" {
		t.Errorf("unexpected rows (-want +got):\n%s", diff)
	}
	assert.Equal(t, "additive", result.Policy)
	assert.Equal(t, []string{"Sopa", "Bolo"}, result.Selected)
}

func TestShoppingService_Generate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	service := newTestShoppingService()
	sess := session.New("test")

	first, err := service.Generate(ctx, sess)
	require.NoError(t, err)
	second, err := service.Generate(ctx, sess)
	require.NoError(t, err)

	if diff := cmp.Diff(first.List, second.List); diff != "" {
		t.Errorf("regeneration changed the list (-first +second):\n%s", diff)
	}
	assert.Equal(t, 3, first.List.Len(), "only baseline items without any recipe selected")
}

func TestShoppingService_StockRows(t *testing.T) {
	ctx := context.Background()
	service := newTestShoppingService()
	sess := session.New("test")

	rows, err := service.StockRows(ctx, sess)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Arroz", rows[0].Item)

	require.NoError(t, service.SetStock(sess, "Arroz", dec("1.25")))
	require.NoError(t, service.Select(ctx, sess, []string{"Sopa"}))

	rows, err = service.StockRows(ctx, sess)
	require.NoError(t, err)

	byItem := make(map[string]entities.Unit)
	for _, row := range rows {
		byItem[row.Item] = row.Unit
		if row.Item == "Arroz" {
			assert.True(t, row.Quantity.Equal(dec("1.25")), "existing stock survives reseeding")
		}
	}
	assert.Len(t, rows, 5)
	assert.Equal(t, entities.UnitKilo, byItem["Sal"])
	assert.Equal(t, entities.UnitEach, byItem["Cenoura"])

	// deselecting keeps stale entries tracked but hides them from the form
	require.NoError(t, service.Select(ctx, sess, nil))
	rows, err = service.StockRows(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.True(t, sess.Stock().Tracked("Sal"))
}

func TestShoppingService_SelectIgnoresUnknownAndCaps(t *testing.T) {
	ctx := context.Background()
	service := newTestShoppingService()
	sess := session.NewWithLimit("test", 1)

	require.NoError(t, service.Select(ctx, sess, []string{"Sopa", "Lasanha"}))
	assert.Equal(t, []string{"Sopa"}, sess.Selected())

	err := service.Select(ctx, sess, []string{"Sopa", "Bolo"})
	assert.ErrorIs(t, err, session.ErrTooManyRecipes)
}

func TestShoppingService_ExtrasAndReset(t *testing.T) {
	ctx := context.Background()
	service := newTestShoppingService()
	sess := session.New("test")

	_, err := service.AddExtra(sess, "  ", dec("1"), entities.UnitEach, entities.CategoryOther)
	assert.Error(t, err)

	extra, err := service.AddExtra(sess, "Pão", dec("6"), entities.UnitEach, entities.CategoryProduce)
	require.NoError(t, err)
	assert.Equal(t, "Pão", extra.Name)

	result, err := service.Generate(ctx, sess)
	require.NoError(t, err)
	_, ok := result.List.Find("Pão")
	assert.True(t, ok)

	require.NoError(t, service.Select(ctx, sess, []string{"Bolo"}))
	require.NoError(t, service.Reset(ctx, sess))
	assert.Empty(t, sess.Extras())
	assert.Empty(t, sess.Selected())
	assert.Equal(t, []string{"Arroz", "Detergente", "Ovo"}, sess.Stock().Items())
}

func TestShoppingService_MalformedStoreSurfacesParseError(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Write(ctx, document.DefaultBaselineKey, []byte("not json")))
	service := NewShoppingService(
		document.NewRecipeStore(backend, ""),
		document.NewBaselineStore(backend, ""),
		nil,
		nil,
	)

	_, err := service.Generate(ctx, session.New("test"))
	var parseErr *repositories.ParseError
	require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
	assert.Equal(t, "baseline", parseErr.Store)
}

func TestShoppingService_PublishesRuns(t *testing.T) {
	ctx := context.Background()
	feed := events.NewInMemoryEventStore(nil)
	service := newTestShoppingService().WithPublisher(feed)
	sess := session.New("run-1")

	require.NoError(t, service.Select(ctx, sess, []string{"Bolo"}))
	_, err := service.Generate(ctx, sess)
	require.NoError(t, err)
	require.NoError(t, service.Reset(ctx, sess))

	stream, err := feed.ReadEvents(events.SessionStream("run-1"), 1)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	generated, ok := stream[0].Data().(events.ListGenerated)
	require.True(t, ok)
	assert.Equal(t, []string{"Bolo"}, generated.Recipes)
	assert.Equal(t, "additive", generated.Policy)
	assert.Equal(t, events.SessionResetEvent, stream[1].Type())
}
