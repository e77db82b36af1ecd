package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/shoplist/pkg/infrastructure/storage/core"
)

func TestStore_RoundTripAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shoplist.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)

	_, err = store.Read(ctx, "receitas.json")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.Write(ctx, "receitas.json", []byte(`{"Sopa":{}}`)))
	require.NoError(t, store.Write(ctx, "receitas.json", []byte(`{"Bolo":{}}`)))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Read(ctx, "receitas.json")
	require.NoError(t, err)
	assert.Equal(t, `{"Bolo":{}}`, string(data))
	assert.Equal(t, core.DriverSQLite, reopened.Driver())
}
