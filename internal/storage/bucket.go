package storage

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-web/internal/logger"
	"storefront-web/internal/visitor"

	"go.uber.org/zap"
)

// Bucket reads and writes JSON values in a Store under the namespace of the
// visitor carried by the context.
type Bucket struct {
	store Store
	scope string
}

// NewBucket names the bucket with scope ("local", "session") for logging.
func NewBucket(store Store, scope string) *Bucket {
	return &Bucket{store: store, scope: scope}
}

// Load decodes the value stored under key into v. It reports false when the
// key is absent, unreadable or holds malformed JSON; such values are treated
// as if they were never written.
func (b *Bucket) Load(ctx context.Context, key string, v any) bool {
	raw, err := b.store.Get(ctx, visitor.IDFrom(ctx), key)
	if errors.Is(err, ErrNotFound) {
		return false
	}

	log := logger.FromCtx(ctx).With(
		zap.String("scope", b.scope),
		zap.String("key", key),
	)
	if err != nil {
		log.Warn("failed to read persisted value", zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn("discarding corrupt persisted value", zap.Error(err))
		return false
	}
	return true
}

func (b *Bucket) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.store.Set(ctx, visitor.IDFrom(ctx), key, raw)
}

// SaveRaw stores value as is, without JSON encoding (used for the token).
func (b *Bucket) SaveRaw(ctx context.Context, key, value string) error {
	return b.store.Set(ctx, visitor.IDFrom(ctx), key, []byte(value))
}

// LoadRaw returns the stored bytes as a string, or "" when absent.
func (b *Bucket) LoadRaw(ctx context.Context, key string) string {
	raw, err := b.store.Get(ctx, visitor.IDFrom(ctx), key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.FromCtx(ctx).Warn("failed to read persisted value",
				zap.String("scope", b.scope),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return ""
	}
	return string(raw)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	return b.store.Remove(ctx, visitor.IDFrom(ctx), key)
}
