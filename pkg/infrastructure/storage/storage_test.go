package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	testCases := []struct {
		name     string
		opts     Options
		expected Driver
	}{
		{"default is filesystem", Options{Dir: dir}, DriverFilesystem},
		{"memory", Options{Driver: DriverMemory}, DriverMemory},
		{"sqlite", Options{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "shoplist.db")}, DriverSQLite},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend, err := Open(ctx, tc.opts)
			require.NoError(t, err)
			defer backend.Close()
			assert.Equal(t, tc.expected, backend.Driver())
		})
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "ftp"})
	assert.Error(t, err)
}

func TestOpen_S3RequiresBucket(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: DriverS3})
	assert.Error(t, err)
}
