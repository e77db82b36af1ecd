package repositories

import (
	"context"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// BaselineRepository provides access to the baseline list of staple items
type BaselineRepository interface {
	Load(ctx context.Context) (map[string]entities.BaselineItem, error)
	Save(ctx context.Context, items map[string]entities.BaselineItem) error
	Upsert(ctx context.Context, item entities.BaselineItem) error
	Replace(ctx context.Context, oldName string, item entities.BaselineItem) error
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}
