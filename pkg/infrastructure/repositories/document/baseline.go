package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/domain/repositories"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
)

// DefaultBaselineKey is the document key of the baseline list.
const DefaultBaselineKey = "lista_base.json"

// BaselineStore persists staples as {item: {"quantidade": n, "unidade": s, "categoria": s}}.
type BaselineStore struct {
	store *recordStore[entities.BaselineItem]
}

// Verify interface compliance
var _ repositories.BaselineRepository = (*BaselineStore)(nil)

// NewBaselineStore creates a baseline store over backend under key.
func NewBaselineStore(backend storage.Backend, key string, opts ...Option) *BaselineStore {
	if key == "" {
		key = DefaultBaselineKey
	}
	return &BaselineStore{store: newRecordStore[entities.BaselineItem]("baseline", key, backend, baselineCodec{}, opts)}
}

func (b *BaselineStore) Load(ctx context.Context) (map[string]entities.BaselineItem, error) {
	return b.store.load(ctx)
}

func (b *BaselineStore) Save(ctx context.Context, items map[string]entities.BaselineItem) error {
	return b.store.save(ctx, items)
}

func (b *BaselineStore) Upsert(ctx context.Context, item entities.BaselineItem) error {
	return b.store.upsert(ctx, item.Name, item)
}

// Replace saves item and removes oldName in one write.
func (b *BaselineStore) Replace(ctx context.Context, oldName string, item entities.BaselineItem) error {
	return b.store.replace(ctx, oldName, item.Name, item)
}

func (b *BaselineStore) Delete(ctx context.Context, name string) error {
	return b.store.delete(ctx, name)
}

func (b *BaselineStore) Rename(ctx context.Context, oldName, newName string) error {
	return b.store.rename(ctx, oldName, newName)
}

// Invalidate forces the next Load to re-read the document.
func (b *BaselineStore) Invalidate() {
	b.store.invalidate()
}

type baselineRecord struct {
	Quantity json.Number `json:"quantidade"`
	Unit     string      `json:"unidade"`
	Category string      `json:"categoria"`
}

type baselineCodec struct{}

func (baselineCodec) decode(data []byte) (map[string]entities.BaselineItem, error) {
	var raw map[string]baselineRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make(map[string]entities.BaselineItem, len(raw))
	for name, record := range raw {
		minimum, err := parseNumber(record.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", name, err)
		}
		items[name] = entities.BaselineItem{
			Name:     name,
			Minimum:  minimum,
			Unit:     entities.Unit(record.Unit),
			Category: entities.Category(record.Category),
		}
	}
	return items, nil
}

func (baselineCodec) encode(items map[string]entities.BaselineItem) ([]byte, error) {
	raw := make(map[string]baselineRecord, len(items))
	for name, item := range items {
		raw[name] = baselineRecord{
			Quantity: number(item.Minimum),
			Unit:     string(item.Unit),
			Category: string(item.Category),
		}
	}
	return marshalIndented(raw)
}

func (baselineCodec) clone(item entities.BaselineItem) entities.BaselineItem {
	return item
}

func (baselineCodec) rename(item entities.BaselineItem, name string) entities.BaselineItem {
	item.Name = name
	return item
}
