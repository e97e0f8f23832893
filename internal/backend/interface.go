package backend

import (
	"context"

	"pftracker/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult holds the blob store and the func that closes it.
type BackendResult struct {
	Store   storage.BlobStore
	Cleanup CleanupFunc
}

// Factory creates blob stores from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds what the factory needs to open a backend.
type Config struct {
	Type BackendType

	// SQLite
	SQLiteDBPath string

	// PostgreSQL
	DatabaseURL string
}

// BackendType names a blob store implementation.
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
