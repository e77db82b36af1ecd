package events

import "fmt"

const (
	RecipeSavedEvent   = "recipe.saved"
	RecipeDeletedEvent = "recipe.deleted"
	RecipeRenamedEvent = "recipe.renamed"

	BaselineItemSavedEvent   = "baseline.saved"
	BaselineItemDeletedEvent = "baseline.deleted"
	BaselineItemRenamedEvent = "baseline.renamed"

	ListGeneratedEvent = "list.generated"
	SessionResetEvent  = "session.reset"
)

// EditorEventTypes lists every event emitted by the editors.
var EditorEventTypes = []string{
	RecipeSavedEvent,
	RecipeDeletedEvent,
	RecipeRenamedEvent,
	BaselineItemSavedEvent,
	BaselineItemDeletedEvent,
	BaselineItemRenamedEvent,
}

// AllEventTypes lists every event type.
var AllEventTypes = append(append([]string(nil), EditorEventTypes...), ListGeneratedEvent, SessionResetEvent)

type RecipeSaved struct {
	Name         string
	PreviousName string
	Ingredients  int
	Session      string
}

type RecipeDeleted struct {
	Name    string
	Session string
}

type RecipeRenamed struct {
	From    string
	To      string
	Session string
}

type BaselineItemSaved struct {
	Name         string
	PreviousName string
	Session      string
}

type BaselineItemDeleted struct {
	Name    string
	Session string
}

type BaselineItemRenamed struct {
	From    string
	To      string
	Session string
}

type ListGenerated struct {
	Session string
	Recipes []string
	Rows    int
	Policy  string
}

type SessionReset struct {
	Session string
}

// RecipeStream and BaselineStream name the per-record streams.
func RecipeStream(name string) string   { return "recipe:" + name }
func BaselineStream(name string) string { return "baseline:" + name }
func SessionStream(id string) string    { return "session:" + id }

func NewRecipeSavedEvent(data RecipeSaved) Event {
	return NewEvent(RecipeSavedEvent, RecipeStream(data.Name), data)
}

func NewRecipeDeletedEvent(data RecipeDeleted) Event {
	return NewEvent(RecipeDeletedEvent, RecipeStream(data.Name), data)
}

func NewRecipeRenamedEvent(data RecipeRenamed) Event {
	return NewEvent(RecipeRenamedEvent, RecipeStream(data.To), data)
}

func NewBaselineItemSavedEvent(data BaselineItemSaved) Event {
	return NewEvent(BaselineItemSavedEvent, BaselineStream(data.Name), data)
}

func NewBaselineItemDeletedEvent(data BaselineItemDeleted) Event {
	return NewEvent(BaselineItemDeletedEvent, BaselineStream(data.Name), data)
}

func NewBaselineItemRenamedEvent(data BaselineItemRenamed) Event {
	return NewEvent(BaselineItemRenamedEvent, BaselineStream(data.To), data)
}

func NewListGeneratedEvent(data ListGenerated) Event {
	return NewEvent(ListGeneratedEvent, SessionStream(data.Session), data)
}

func NewSessionResetEvent(data SessionReset) Event {
	return NewEvent(SessionResetEvent, SessionStream(data.Session), data)
}

// Describe renders a one-line Portuguese summary for the history page.
func Describe(e Event) string {
	switch d := e.Data().(type) {
	case RecipeSaved:
		if d.PreviousName != "" && d.PreviousName != d.Name {
			return fmt.Sprintf("Receita %s salva (antes %s), %d ingredientes", d.Name, d.PreviousName, d.Ingredients)
		}
		return fmt.Sprintf("Receita %s salva, %d ingredientes", d.Name, d.Ingredients)
	case RecipeDeleted:
		return fmt.Sprintf("Receita %s excluída", d.Name)
	case RecipeRenamed:
		return fmt.Sprintf("Receita %s renomeada para %s", d.From, d.To)
	case BaselineItemSaved:
		if d.PreviousName != "" && d.PreviousName != d.Name {
			return fmt.Sprintf("Item %s salvo (antes %s)", d.Name, d.PreviousName)
		}
		return fmt.Sprintf("Item %s salvo", d.Name)
	case BaselineItemDeleted:
		return fmt.Sprintf("Item %s excluído", d.Name)
	case BaselineItemRenamed:
		return fmt.Sprintf("Item %s renomeado para %s", d.From, d.To)
	case ListGenerated:
		return fmt.Sprintf("Lista gerada com %d itens", d.Rows)
	case SessionReset:
		return "Sessão reiniciada"
	default:
		return e.Type()
	}
}
