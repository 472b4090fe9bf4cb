package storage

import (
	"context"
	"errors"
	"testing"

	"storefront-web/internal/logger"
	"storefront-web/internal/visitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, string, []byte) error  { return f.err }
func (f failingStore) Remove(context.Context, string, string) error       { return f.err }

func TestBucket_RoundTrip(t *testing.T) {
	ctx := visitor.WithID(context.Background(), "v1")
	b := NewBucket(NewMemoryStore(), "local")

	var ids []string
	assert.False(t, b.Load(ctx, "ids", &ids))

	require.NoError(t, b.Save(ctx, "ids", []string{"a", "b"}))
	assert.True(t, b.Load(ctx, "ids", &ids))
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, b.Delete(ctx, "ids"))
	assert.False(t, b.Load(ctx, "ids", &ids))
}

func TestBucket_VisitorsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	b := NewBucket(store, "local")

	require.NoError(t, b.SaveRaw(visitor.WithID(context.Background(), "alice"), "tok", "abc"))

	assert.Equal(t, "abc", b.LoadRaw(visitor.WithID(context.Background(), "alice"), "tok"))
	assert.Equal(t, "", b.LoadRaw(visitor.WithID(context.Background(), "bob"), "tok"))
}

func TestBucket_CorruptValueReadsAsAbsent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	ctx := visitor.WithID(context.Background(), "v1")
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "v1", "reda_cart", []byte("{not json")))

	b := NewBucket(store, "local")
	var lines []map[string]any
	assert.False(t, b.Load(ctx, "reda_cart", &lines))
	assert.Empty(t, lines)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "discarding corrupt persisted value", entry.Message)
	assert.Equal(t, "reda_cart", entry.ContextMap()["key"])
	assert.Equal(t, "v1", entry.ContextMap()["visitor_id"])
}

func TestBucket_BackendErrorReadsAsAbsent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	ctx := visitor.WithID(context.Background(), "v1")
	b := NewBucket(failingStore{err: errors.New("connection refused")}, "local")

	var v []string
	assert.False(t, b.Load(ctx, "k", &v))
	assert.Equal(t, "", b.LoadRaw(ctx, "k"))
	assert.Equal(t, 2, logs.Len())
	assert.Error(t, b.Save(ctx, "k", v))
}
