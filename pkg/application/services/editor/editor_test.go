package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shoplist/pkg/application/session"
	testhelpers "github.com/vsinha/shoplist/pkg/application/services/testing"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
)

func unlocked(t *testing.T, editors ...string) *session.Session {
	t.Helper()
	sess := session.New("editor-test")
	gate := NewGate(StaticPassword("123"))
	for _, editor := range editors {
		require.NoError(t, gate.Enter(sess, editor, "123"))
	}
	return sess
}

func TestGate_Enter(t *testing.T) {
	gate := NewGate(StaticPassword("123"))
	sess := session.New("s")

	err := gate.Enter(sess, EditorRecipes, "1234")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.False(t, sess.Authorized(EditorRecipes))

	require.NoError(t, gate.Enter(sess, EditorRecipes, "123"))
	assert.True(t, sess.Authorized(EditorRecipes))
	assert.False(t, sess.Authorized(EditorBaseline), "editors unlock independently")
}

func TestGate_CustomAuthorizer(t *testing.T) {
	calls := 0
	gate := NewGate(AuthorizerFunc(func(credential string) bool {
		calls++
		return credential == "token"
	}))
	sess := session.New("s")

	require.NoError(t, gate.Enter(sess, EditorBaseline, "token"))
	assert.Equal(t, 1, calls)
}

func TestRecipeEditor_RequiresUnlock(t *testing.T) {
	recipes, _, _ := testhelpers.BuildKitchenTestData()
	editor := NewRecipeEditor(recipes, nil)
	ctx := context.Background()

	_, err := editor.Save(ctx, session.New("s"), RecipeForm{Name: "Torta"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = editor.Delete(ctx, unlocked(t, EditorBaseline), "Sopa")
	assert.ErrorIs(t, err, ErrUnauthorized)

	all, err := recipes.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "Sopa")
}

func TestRecipeEditor_SaveSkipsBlankRows(t *testing.T) {
	recipes, _, _ := testhelpers.BuildKitchenTestData()
	editor := NewRecipeEditor(recipes, nil)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes)

	form := NewRecipeForm()
	form.Name = "  Omelete "
	form.Rows[0] = IngredientRow{Name: "Ovo", Quantity: decimal.NewFromInt(2), Unit: entities.UnitEach, Category: entities.CategoryDeli}
	form.AddRow()
	form.AddRow()
	form.Rows[2].Name = "   "

	saved, err := editor.Save(ctx, sess, form)
	require.NoError(t, err)
	assert.Equal(t, "Omelete", saved.Name)
	assert.Equal(t, []string{"Ovo"}, saved.IngredientNames())

	got, ok, err := editor.Get(ctx, "Omelete")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Ingredients["Ovo"].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestRecipeEditor_SaveValidation(t *testing.T) {
	recipes, _, _ := testhelpers.BuildKitchenTestData()
	editor := NewRecipeEditor(recipes, nil)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes)

	tests := []struct {
		name string
		form RecipeForm
		want error
	}{
		{"blank name", RecipeForm{Name: " ", Rows: []IngredientRow{{Name: "Sal", Quantity: decimal.NewFromInt(1)}}}, ErrNameRequired},
		{"only blank rows", RecipeForm{Name: "Vazia", Rows: []IngredientRow{{Name: ""}, {Name: "  "}}}, ErrNoIngredients},
		{"no rows", RecipeForm{Name: "Vazia"}, ErrNoIngredients},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editor.Save(ctx, sess, tt.form)
			var validation *ValidationError
			require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
			assert.ErrorIs(t, err, tt.want)
			assert.NotEmpty(t, validation.Message)
		})
	}

	_, err := editor.Save(ctx, sess, RecipeForm{
		Name: "Negativa",
		Rows: []IngredientRow{{Name: "Sal", Quantity: decimal.NewFromInt(-1)}},
	})
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestRecipeEditor_SaveWithRename(t *testing.T) {
	recipes, _, _ := testhelpers.BuildKitchenTestData()
	editor := NewRecipeEditor(recipes, nil)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes)

	sopa, ok, err := editor.Get(ctx, "Sopa")
	require.NoError(t, err)
	require.True(t, ok)

	form := FormFromRecipe(sopa)
	assert.Len(t, form.Rows, 3)
	form.Name = "Caldo"

	_, err = editor.Save(ctx, sess, form)
	require.NoError(t, err)

	list, err := editor.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, recipe := range list {
		names = append(names, recipe.Name)
	}
	assert.Equal(t, []string{"Bolo", "Caldo"}, names)
}

func TestRecipeEditor_DeleteAndRename(t *testing.T) {
	recipes, _, _ := testhelpers.BuildKitchenTestData()
	editor := NewRecipeEditor(recipes, nil)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes)

	require.NoError(t, editor.Rename(ctx, sess, "Bolo", "Bolo de Fubá"))
	require.NoError(t, editor.Delete(ctx, sess, "Sopa"))
	require.NoError(t, editor.Delete(ctx, sess, "Sopa"), "deleting a missing recipe is a no-op")

	list, err := editor.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bolo de Fubá", list[0].Name)

	err = editor.Rename(ctx, sess, "Bolo de Fubá", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestBaselineEditor_SaveRenameDelete(t *testing.T) {
	_, baseline, _ := testhelpers.BuildKitchenTestData()
	editor := NewBaselineEditor(baseline, nil)
	ctx := context.Background()

	_, err := editor.Save(ctx, unlocked(t, EditorRecipes), BaselineForm{Name: "Café"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	sess := unlocked(t, EditorBaseline)
	saved, err := editor.Save(ctx, sess, BaselineForm{
		Name:     "Café",
		Minimum:  decimal.RequireFromString("0.5"),
		Unit:     entities.UnitKilo,
		Category: entities.CategoryOther,
	})
	require.NoError(t, err)
	assert.Equal(t, "Café", saved.Name)

	ovo, ok, err := editor.Get(ctx, "Ovo")
	require.NoError(t, err)
	require.True(t, ok)
	form := FormFromItem(ovo)
	form.Name = "Ovos"
	form.Minimum = decimal.NewFromInt(12)
	_, err = editor.Save(ctx, sess, form)
	require.NoError(t, err)

	require.NoError(t, editor.Delete(ctx, sess, "Detergente"))

	items, err := editor.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Arroz", "Café", "Ovos"}, names)
	assert.True(t, items[2].Minimum.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, entities.CategoryDeli, items[2].Category)
}

func TestBaselineEditor_SaveValidation(t *testing.T) {
	_, baseline, _ := testhelpers.BuildKitchenTestData()
	editor := NewBaselineEditor(baseline, nil)
	sess := unlocked(t, EditorBaseline)

	_, err := editor.Save(context.Background(), sess, BaselineForm{Name: ""})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = editor.Save(context.Background(), sess, BaselineForm{Name: "Sabão", Minimum: decimal.NewFromInt(-2)})
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestEditors_PublishChanges(t *testing.T) {
	recipes, baseline, _ := testhelpers.BuildKitchenTestData()
	feed := events.NewInMemoryEventStore(nil)
	recipeEditor := NewRecipeEditor(recipes, nil).WithPublisher(feed)
	baselineEditor := NewBaselineEditor(baseline, nil).WithPublisher(feed)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes, EditorBaseline)

	require.NoError(t, recipeEditor.Rename(ctx, sess, "Bolo", "Torta"))
	require.NoError(t, baselineEditor.Delete(ctx, sess, "Detergente"))

	_, err := recipeEditor.Save(ctx, sess, RecipeForm{Name: "Vazia"})
	require.Error(t, err)

	all, err := feed.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 2, "failed saves publish nothing")
	assert.Equal(t, events.RecipeRenamedEvent, all[0].Type())
	assert.Equal(t, events.RecipeRenamed{From: "Bolo", To: "Torta", Session: sess.ID}, all[0].Data())
	assert.Equal(t, "baseline:Detergente", all[1].StreamID())
}

var errWriteRejected = errors.New("write rejected")

type rejectingBackend struct {
	*memory.Store
	reject bool
}

func (b *rejectingBackend) Write(ctx context.Context, key string, data []byte) error {
	if b.reject {
		return errWriteRejected
	}
	return b.Store.Write(ctx, key, data)
}

func TestBaselineEditor_FailedRenameKeepsOriginal(t *testing.T) {
	backend := &rejectingBackend{Store: memory.New()}
	editor := NewBaselineEditor(document.NewBaselineStore(backend, "", document.WithTTL(0)), nil)
	ctx := context.Background()
	sess := unlocked(t, EditorBaseline)

	_, err := editor.Save(ctx, sess, BaselineForm{
		Name:     "Arroz",
		Minimum:  decimal.NewFromInt(2),
		Unit:     entities.UnitKilo,
		Category: entities.CategoryOther,
	})
	require.NoError(t, err)

	backend.reject = true
	_, err = editor.Save(ctx, sess, BaselineForm{
		OriginalName: "Arroz",
		Name:         "Arroz integral",
		Minimum:      decimal.NewFromInt(2),
		Unit:         entities.UnitKilo,
		Category:     entities.CategoryOther,
	})
	assert.ErrorIs(t, err, errWriteRejected)

	backend.reject = false
	_, ok, err := editor.Get(ctx, "Arroz")
	require.NoError(t, err)
	assert.True(t, ok, "failed rename must leave the original item")
	_, ok, err = editor.Get(ctx, "Arroz integral")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecipeEditor_FailedRenameKeepsOriginal(t *testing.T) {
	backend := &rejectingBackend{Store: memory.New()}
	editor := NewRecipeEditor(document.NewRecipeStore(backend, "", document.WithTTL(0)), nil)
	ctx := context.Background()
	sess := unlocked(t, EditorRecipes)

	form := RecipeForm{
		Name: "Sopa",
		Rows: []IngredientRow{{Name: "Sal", Quantity: decimal.RequireFromString("0.1"), Unit: entities.UnitKilo, Category: entities.CategoryCondiments}},
	}
	_, err := editor.Save(ctx, sess, form)
	require.NoError(t, err)

	backend.reject = true
	form.OriginalName, form.Name = "Sopa", "Caldo"
	_, err = editor.Save(ctx, sess, form)
	assert.ErrorIs(t, err, errWriteRejected)

	backend.reject = false
	list, err := editor.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sopa", list[0].Name)
}
