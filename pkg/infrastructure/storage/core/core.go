// Package core defines the document backend abstraction shared by the storage drivers.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete document backend.
type Driver string

const (
	// DriverFilesystem stores each document as a file under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverSQLite stores documents as rows of a single SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverS3 stores documents as objects in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps documents in process memory (tests).
	DriverMemory Driver = "memory"
)

// Backend reads and overwrites whole documents by key.
type Backend interface {
	// Read returns the document stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the document stored under key.
	Write(ctx context.Context, key string, data []byte) error
	Driver() Driver
	Close() error
}

// ErrNotFound is returned when no document exists under a key.
var ErrNotFound = errors.New("storage: document not found")
