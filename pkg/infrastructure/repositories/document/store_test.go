package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type countingObserver struct {
	cachedLoads int
	freshLoads  int
	writes      int
}

func (o *countingObserver) ObserveLoad(_ string, cached bool) {
	if cached {
		o.cachedLoads++
	} else {
		o.freshLoads++
	}
}

func (o *countingObserver) ObserveWrite(_ string, _ error) { o.writes++ }

const originalRecipes = `{
  "Sopa": {
    "Sal": [0.1, "Kg", "Condimentos"],
    "Cenoura": [3, "Un", "Feira"]
  },
  "Strogonoff": {
    "Frango": [1.5, "Kg", "Açougue"],
    "Creme de leite": [2, "Un"]
  }
}`

const originalBaseline = `{
  "Arroz": {"quantidade": 2.0, "unidade": "Kg", "categoria": "Outros"},
  "Detergente": {"quantidade": 3, "unidade": "Un", "categoria": "Limpeza"}
}`

func TestRecipeStore_LoadMissingDocumentIsEmpty(t *testing.T) {
	store := NewRecipeStore(memory.New(), "")

	recipes, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestRecipeStore_DecodesOriginalFormat(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultRecipesKey, []byte(originalRecipes)))

	recipes, err := NewRecipeStore(backend, "").Load(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	salt := recipes["Sopa"].Ingredients["Sal"]
	assert.True(t, salt.Quantity.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, entities.UnitKilo, salt.Unit)
	assert.Equal(t, entities.CategoryCondiments, salt.Category)
	assert.Equal(t, "Strogonoff", recipes["Strogonoff"].Name)

	cream := recipes["Strogonoff"].Ingredients["Creme de leite"]
	assert.Equal(t, entities.Category(""), cream.Category, "missing category stays empty until aggregation")
}

func TestRecipeStore_MalformedDocumentIsParseError(t *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{"not json", `{"Sopa": `},
		{"wrong shape", `{"Sopa": {"Sal": {"quantidade": 1}}}`},
		{"non numeric quantity", `{"Sopa": {"Sal": ["muito", "Kg", "Condimentos"]}}`},
		{"negative quantity", `{"Sopa": {"Sal": [-1, "Kg", "Condimentos"]}}`},
		{"too many elements", `{"Sopa": {"Sal": [1, "Kg", "Condimentos", "extra"]}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := memory.New()
			require.NoError(t, backend.Write(context.Background(), DefaultRecipesKey, []byte(tc.document)))

			_, err := NewRecipeStore(backend, "").Load(context.Background())
			var parseErr *repositories.ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
			assert.Equal(t, "recipes", parseErr.Store)
		})
	}
}

func TestRecipeStore_SaveWritesOriginalFormat(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	store := NewRecipeStore(backend, "")

	err := store.Upsert(ctx, entities.Recipe{Name: "Pão de queijo", Ingredients: map[string]entities.Ingredient{
		"Queijo": {Quantity: decimal.RequireFromString("0.5"), Unit: entities.UnitKilo, Category: entities.CategoryDeli},
	}})
	require.NoError(t, err)

	data, err := backend.Read(ctx, DefaultRecipesKey)
	require.NoError(t, err)
	expected := "{\n  \"Pão de queijo\": {\n    \"Queijo\": [\n      0.5,\n      \"Kg\",\n      \"Frios\"\n    ]\n  }\n}\n"
	assert.Equal(t, expected, string(data))
}

func TestBaselineStore_RoundTrip(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))
	store := NewBaselineStore(backend, "", WithTTL(0))

	items, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, items))

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	assert.True(t, reloaded["Arroz"].Minimum.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, entities.CategoryCleaning, reloaded["Detergente"].Category)

	data, err := backend.Read(ctx, DefaultBaselineKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quantidade": 3`)
	assert.Contains(t, string(data), `"unidade": "Kg"`)
}

func TestBaselineStore_RenameKeepsFields(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))
	store := NewBaselineStore(backend, "")

	require.NoError(t, store.Rename(ctx, "Arroz", "Arroz integral"))

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2, "rename must not duplicate entries")
	_, stillThere := items["Arroz"]
	assert.False(t, stillThere)

	renamed, ok := items["Arroz integral"]
	require.True(t, ok)
	assert.Equal(t, "Arroz integral", renamed.Name)
	assert.True(t, renamed.Minimum.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, entities.UnitKilo, renamed.Unit)
	assert.Equal(t, entities.CategoryOther, renamed.Category)
}

func TestBaselineStore_RenameUnknownItem(t *testing.T) {
	store := NewBaselineStore(memory.New(), "")

	err := store.Rename(context.Background(), "Nada", "Algo")
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestBaselineStore_DeleteUnknownDoesNotWrite(t *testing.T) {
	backend := memory.New()
	store := NewBaselineStore(backend, "")

	require.NoError(t, store.Delete(context.Background(), "Nada"))
	assert.Equal(t, 0, backend.Writes())
}

func TestRecordStore_CacheExpiresAfterTTL(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	observer := &countingObserver{}
	store := NewBaselineStore(backend, "", WithClock(clock.Now), WithTTL(time.Second), WithObserver(observer))

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// another session writes behind our back
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))

	clock.Advance(500 * time.Millisecond)
	items, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "cached value should be served inside the TTL window")

	clock.Advance(600 * time.Millisecond)
	items, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2, "document should be re-read once the TTL expired")

	assert.Equal(t, 1, observer.cachedLoads)
	assert.Equal(t, 2, observer.freshLoads)
}

func TestRecordStore_LoadReturnsCopies(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultRecipesKey, []byte(originalRecipes)))
	store := NewRecipeStore(backend, "")

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first["Sopa"].Ingredients["Batata"] = entities.Ingredient{}
	delete(first, "Strogonoff")

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	_, leaked := second["Sopa"].Ingredients["Batata"]
	assert.False(t, leaked)
}

func TestRecordStore_MutationsSeeExternalWrites(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	store := NewBaselineStore(backend, "", WithTTL(time.Hour))

	_, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))

	require.NoError(t, store.Upsert(ctx, entities.BaselineItem{Name: "Café", Minimum: decimal.NewFromInt(1), Unit: entities.UnitPack}))

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3, "upsert must merge into the persisted document, not the stale cache")
}

var errDiskFull = errors.New("disk full")

// failingBackend rejects writes while fail is set.
type failingBackend struct {
	*memory.Store
	fail bool
}

func (b *failingBackend) Write(ctx context.Context, key string, data []byte) error {
	if b.fail {
		return errDiskFull
	}
	return b.Store.Write(ctx, key, data)
}

func TestBaselineStore_ReplaceIsSingleWrite(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))
	store := NewBaselineStore(backend, "")
	before := backend.Writes()

	item := entities.BaselineItem{Name: "Arroz integral", Minimum: decimal.NewFromInt(1), Unit: entities.UnitPack, Category: entities.CategoryOther}
	require.NoError(t, store.Replace(ctx, "Arroz", item))
	assert.Equal(t, before+1, backend.Writes())

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotContains(t, items, "Arroz")
	assert.Equal(t, entities.UnitPack, items["Arroz integral"].Unit)
}

func TestBaselineStore_ReplaceFailedWriteKeepsOriginal(t *testing.T) {
	backend := &failingBackend{Store: memory.New()}
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultBaselineKey, []byte(originalBaseline)))
	store := NewBaselineStore(backend, "", WithTTL(0))

	backend.fail = true
	err := store.Replace(ctx, "Arroz", entities.BaselineItem{Name: "Arroz integral", Minimum: decimal.NewFromInt(1), Unit: entities.UnitKilo})
	assert.ErrorIs(t, err, errDiskFull)

	backend.fail = false
	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, items, "Arroz")
	assert.NotContains(t, items, "Arroz integral")
}

func TestRecipeStore_ReplaceFailedWriteKeepsOriginal(t *testing.T) {
	backend := &failingBackend{Store: memory.New()}
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, DefaultRecipesKey, []byte(originalRecipes)))
	store := NewRecipeStore(backend, "", WithTTL(0))

	recipes, err := store.Load(ctx)
	require.NoError(t, err)
	sopa := recipes["Sopa"]
	sopa.Name = "Caldo"

	backend.fail = true
	assert.ErrorIs(t, store.Replace(ctx, "Sopa", sopa), errDiskFull)

	backend.fail = false
	recipes, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, recipes, "Sopa")
	assert.NotContains(t, recipes, "Caldo")
}
