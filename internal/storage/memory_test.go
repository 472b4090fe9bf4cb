package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("Missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "v1", "cart")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "v1", "cart", []byte(`[]`)))
		got, err := s.Get(ctx, "v1", "cart")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("Namespaces are isolated", func(t *testing.T) {
		_, err := s.Get(ctx, "v2", "cart")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Returned bytes are a copy", func(t *testing.T) {
		got, err := s.Get(ctx, "v1", "cart")
		require.NoError(t, err)
		got[0] = 'x'
		again, _ := s.Get(ctx, "v1", "cart")
		assert.Equal(t, `[]`, string(again))
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "v1", "cart"))
		_, err := s.Get(ctx, "v1", "cart")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 0, s.Len())
		assert.NoError(t, s.Remove(ctx, "nobody", "cart"))
	})

	t.Run("Empty namespace is rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Set(ctx, "", "cart", []byte("x")), ErrMissingNamespace)
	})
}

func TestMemoryStore_Evict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "idle", "toasts", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "active", "toasts", []byte(`[]`)))

	now = now.Add(20 * time.Minute)
	_, err := s.Get(ctx, "active", "toasts")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, s.Evict(30*time.Minute))
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "idle", "toasts")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "active", "toasts")
	assert.NoError(t, err)

	t.Run("Misses do not extend a namespace", func(t *testing.T) {
		now = now.Add(time.Hour)
		_, err := s.Get(ctx, "active", "cart")
		assert.ErrorIs(t, err, ErrNotFound)

		assert.Equal(t, 1, s.Evict(30*time.Minute))
		assert.Equal(t, 0, s.Len())
	})
}

func TestMemoryStore_Run(t *testing.T) {
	t.Run("Stops with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			NewMemoryStore().Run(ctx, time.Minute)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})

	t.Run("Zero ttl returns at once", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			NewMemoryStore().Run(context.Background(), 0)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run blocked with eviction disabled")
		}
	})
}
