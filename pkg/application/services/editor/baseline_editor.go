package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
)

// BaselineForm is the baseline item create/edit form.
type BaselineForm struct {
	OriginalName string
	Name         string
	Minimum      decimal.Decimal
	Unit         entities.Unit
	Category     entities.Category
}

// FormFromItem pre-fills a form for editing.
func FormFromItem(item entities.BaselineItem) BaselineForm {
	return BaselineForm{
		OriginalName: item.Name,
		Name:         item.Name,
		Minimum:      item.Minimum,
		Unit:         item.Unit,
		Category:     item.Category,
	}
}

// BaselineEditor edits the baseline list.
type BaselineEditor struct {
	repo   repositories.BaselineRepository
	logger *zap.Logger
	events events.Publisher
}

// NewBaselineEditor creates a baseline editor.
func NewBaselineEditor(repo repositories.BaselineRepository, logger *zap.Logger) *BaselineEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaselineEditor{repo: repo, logger: logger, events: events.Discard}
}

// WithPublisher sends change events to p.
func (e *BaselineEditor) WithPublisher(p events.Publisher) *BaselineEditor {
	if p != nil {
		e.events = p
	}
	return e
}

// List returns all baseline items sorted by name.
func (e *BaselineEditor) List(ctx context.Context) ([]entities.BaselineItem, error) {
	items, err := e.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BaselineItem, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns one baseline item.
func (e *BaselineEditor) Get(ctx context.Context, name string) (entities.BaselineItem, bool, error) {
	items, err := e.repo.Load(ctx)
	if err != nil {
		return entities.BaselineItem{}, false, err
	}
	item, ok := items[name]
	return item, ok, nil
}

// Save validates the form and stores the item. A renamed item replaces its original entry in the same write.
func (e *BaselineEditor) Save(ctx context.Context, sess *session.Session, form BaselineForm) (*entities.BaselineItem, error) {
	if err := requireAccess(sess, EditorBaseline); err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.Name) == "" {
		return nil, invalid("Digite o nome do item.", ErrNameRequired)
	}
	item, err := entities.NewBaselineItem(form.Name, form.Minimum, form.Unit, form.Category)
	if err != nil {
		return nil, invalid(err.Error(), err)
	}

	original := strings.TrimSpace(form.OriginalName)
	if err := e.repo.Replace(ctx, original, *item); err != nil {
		return nil, fmt.Errorf("failed to save item %s: %w", item.Name, err)
	}

	e.logger.Info("baseline item saved",
		zap.String("session", sess.ID),
		zap.String("item", item.Name),
		zap.String("previous_name", original),
	)
	e.publish(events.NewBaselineItemSavedEvent(events.BaselineItemSaved{
		Name:         item.Name,
		PreviousName: original,
		Session:      sess.ID,
	}))
	return item, nil
}

// Delete removes a baseline item.
func (e *BaselineEditor) Delete(ctx context.Context, sess *session.Session, name string) error {
	if err := requireAccess(sess, EditorBaseline); err != nil {
		return err
	}
	if err := e.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", name, err)
	}
	e.logger.Info("baseline item deleted", zap.String("session", sess.ID), zap.String("item", name))
	e.publish(events.NewBaselineItemDeletedEvent(events.BaselineItemDeleted{Name: name, Session: sess.ID}))
	return nil
}

// Rename moves an item to a new name keeping its fields.
func (e *BaselineEditor) Rename(ctx context.Context, sess *session.Session, oldName, newName string) error {
	if err := requireAccess(sess, EditorBaseline); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return invalid("Digite o nome do item.", ErrNameRequired)
	}
	if err := e.repo.Rename(ctx, oldName, newName); err != nil {
		return fmt.Errorf("failed to rename item %s: %w", oldName, err)
	}
	e.logger.Info("baseline item renamed", zap.String("session", sess.ID), zap.String("from", oldName), zap.String("to", newName))
	e.publish(events.NewBaselineItemRenamedEvent(events.BaselineItemRenamed{From: oldName, To: newName, Session: sess.ID}))
	return nil
}

func (e *BaselineEditor) publish(event events.Event) {
	if err := e.events.AppendEvent(event.StreamID(), event); err != nil {
		e.logger.Warn("failed to record event", zap.String("event", event.Type()), zap.Error(err))
	}
}
