package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	types []string
	seen  []Event
	err   error
}

func (h *recordingHandler) Handle(event Event) error {
	h.seen = append(h.seen, event)
	return h.err
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	for _, t := range h.types {
		if t == eventType {
			return true
		}
	}
	return false
}

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	require.NoError(t, store.AppendEvent(RecipeStream("Sopa"), NewRecipeSavedEvent(RecipeSaved{Name: "Sopa", Ingredients: 3})))
	require.NoError(t, store.AppendEvent(RecipeStream("Sopa"), NewRecipeDeletedEvent(RecipeDeleted{Name: "Sopa"})))
	require.NoError(t, store.AppendEvent(BaselineStream("Arroz"), NewBaselineItemSavedEvent(BaselineItemSaved{Name: "Arroz"})))

	sopa, err := store.ReadEvents("recipe:Sopa", 0)
	require.NoError(t, err)
	require.Len(t, sopa, 2)
	assert.Equal(t, 1, sopa[0].Version())
	assert.Equal(t, 2, sopa[1].Version())
	assert.Equal(t, RecipeDeletedEvent, sopa[1].Type())

	later, err := store.ReadEvents("recipe:Sopa", 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	missing, err := store.ReadEvents("recipe:Bolo", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "baseline:Arroz", all[1].StreamID())
}

func TestInMemoryEventStore_CapacityAndRecent(t *testing.T) {
	store := NewInMemoryEventStoreWithCapacity(2, nil)
	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, store.AppendEvent(RecipeStream(name), NewRecipeSavedEvent(RecipeSaved{Name: name})))
	}

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 2, "oldest event falls out of the window")
	assert.Equal(t, "recipe:B", all[0].StreamID())

	fromEnd, err := store.ReadAllEvents(3)
	require.NoError(t, err)
	assert.Empty(t, fromEnd)

	recent := store.Recent(5)
	require.Len(t, recent, 2)
	assert.Equal(t, "recipe:C", recent[0].StreamID())
}

func TestInMemoryEventStore_StreamVersionsSurviveTrim(t *testing.T) {
	store := NewInMemoryEventStoreWithCapacity(2, nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendEvent(BaselineStream("Arroz"), NewBaselineItemSavedEvent(BaselineItemSaved{Name: "Arroz"})))
	}

	history, err := store.ReadEvents(BaselineStream("Arroz"), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version())
	assert.Equal(t, 3, history[1].Version())

	last, err := store.ReadEvents(BaselineStream("Arroz"), 3)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.False(t, last[0].Timestamp().IsZero())
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	handler := &recordingHandler{types: []string{RecipeSavedEvent}}
	failing := &recordingHandler{types: []string{RecipeSavedEvent}, err: errors.New("boom")}
	require.NoError(t, store.Subscribe([]string{RecipeSavedEvent, RecipeDeletedEvent}, handler))
	require.NoError(t, store.Subscribe([]string{RecipeSavedEvent}, failing))

	require.NoError(t, store.AppendEvent(RecipeStream("Sopa"), NewRecipeSavedEvent(RecipeSaved{Name: "Sopa"})))
	require.NoError(t, store.AppendEvent(RecipeStream("Sopa"), NewRecipeDeletedEvent(RecipeDeleted{Name: "Sopa"})))

	require.Len(t, handler.seen, 1, "CanHandle filters the delete")
	assert.Len(t, failing.seen, 1, "a failing handler does not fail the append")

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent(RecipeStream("Bolo"), NewRecipeSavedEvent(RecipeSaved{Name: "Bolo"})))
	assert.Len(t, handler.seen, 1)
	assert.Len(t, failing.seen, 2)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewRecipeSavedEvent(RecipeSaved{Name: "Caldo", PreviousName: "Sopa", Ingredients: 3}), "Receita Caldo salva (antes Sopa), 3 ingredientes"},
		{NewRecipeRenamedEvent(RecipeRenamed{From: "Bolo", To: "Torta"}), "Receita Bolo renomeada para Torta"},
		{NewBaselineItemDeletedEvent(BaselineItemDeleted{Name: "Sabão"}), "Item Sabão excluído"},
		{NewListGeneratedEvent(ListGenerated{Session: "s", Rows: 4}), "Lista gerada com 4 itens"},
		{NewEvent("custom", "x", nil), "custom"},
	}
	for _, tt := range tests {
		if got := Describe(tt.event); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.AppendEvent("any", NewEvent("x", "any", nil)))
}
