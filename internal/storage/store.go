package storage

import (
	"context"
	"errors"
)

var (
	// -- Lookup --
	ErrNotFound = errors.New("key not found")

	// -- Input --
	ErrMissingNamespace = errors.New("missing visitor namespace")
	ErrUnknownDialect   = errors.New("unknown sql dialect")
)

// Store is a string-keyed byte store partitioned by namespace (one namespace
// per visitor). Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Remove(ctx context.Context, namespace, key string) error
}
