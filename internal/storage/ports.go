package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key holds no value.
var ErrNotFound = errors.New("key not found")

// Ports implemented by every blob backend. Values are opaque serialized
// strings; a Put always replaces the whole value.
type (
	BlobReader interface {
		Get(ctx context.Context, key string) (string, error)
	}

	BlobWriter interface {
		Put(ctx context.Context, key, value string) error
	}

	// BatchWriter replaces several keys at once. Either every key is
	// written or none is.
	BatchWriter interface {
		PutAll(ctx context.Context, values map[string]string) error
	}

	BlobStore interface {
		BlobReader
		BlobWriter
		BatchWriter
		Close() error
	}
)
