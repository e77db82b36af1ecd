// Package storage re-exports the document backend abstractions and selects a driver.
package storage

import (
	"context"
	"fmt"

	"github.com/vsinha/shoplist/pkg/infrastructure/storage/core"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/fs"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/s3"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/sqlite"
)

type (
	// Driver identifies a document backend driver.
	Driver = core.Driver
	// Backend is the interface for document backends.
	Backend = core.Backend
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverSQLite     = core.DriverSQLite
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

// ErrNotFound indicates no document exists under a key.
var ErrNotFound = core.ErrNotFound

// Options selects and configures a backend.
type Options struct {
	Driver     Driver
	Dir        string
	SQLitePath string
	S3         s3.Config
}

// Open constructs the backend named by opts.Driver (default fs).
func Open(ctx context.Context, opts Options) (Backend, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return fs.New(opts.Dir)
	case DriverSQLite:
		return sqlite.New(opts.SQLitePath)
	case DriverS3:
		return s3.New(ctx, opts.S3.WithEnvCredentials())
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
