package wishlist

import (
	"context"
	"testing"

	"storefront-web/internal/api"
	"storefront-web/internal/model"
	"storefront-web/internal/storage"
	"storefront-web/internal/visitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) AddToWishlist(ctx context.Context, productID string) api.Result {
	return m.Called(ctx, productID).Get(0).(api.Result)
}

func (m *MockRemote) RemoveFromWishlist(ctx context.Context, productID string) api.Result {
	return m.Called(ctx, productID).Get(0).(api.Result)
}

func (m *MockRemote) Wishlist(ctx context.Context) api.WishlistResult {
	return m.Called(ctx).Get(0).(api.WishlistResult)
}

type fixedSession bool

func (s fixedSession) IsLoggedIn(context.Context) bool { return bool(s) }

type recorder struct{ events []Event }

func (r *recorder) OnWishlistEvent(_ context.Context, e Event) { r.events = append(r.events, e) }

func setup(loggedIn bool) (*Wishlist, *MockRemote, *recorder, context.Context) {
	remote := new(MockRemote)
	rec := &recorder{}
	w := New(storage.NewBucket(storage.NewMemoryStore(), "local"), "reda_wishlist", remote, fixedSession(loggedIn), rec)
	return w, remote, rec, visitor.WithID(context.Background(), "v1")
}

func ok() api.Result { return api.Result{Envelope: api.Envelope{Success: true}} }

func TestWishlist_Anonymous(t *testing.T) {
	w, remote, rec, ctx := setup(false)
	p := model.Product{ID: "p1", Name: "Casque"}

	added, err := w.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, w.IsInWishlist(ctx, "p1"))
	assert.Equal(t, 1, w.Count(ctx))

	require.NoError(t, w.Add(ctx, p))
	assert.Equal(t, 1, w.Count(ctx), "no duplicates")

	added, err = w.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Zero(t, w.Count(ctx))

	remote.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything)
	assert.Len(t, rec.events, 3)
}

func TestWishlist_LoggedIn(t *testing.T) {
	t.Run("Remote success then local", func(t *testing.T) {
		w, remote, _, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "p1").Return(ok())

		require.NoError(t, w.Add(ctx, model.Product{ID: "p1"}))
		assert.True(t, w.IsInWishlist(ctx, "p1"))
		remote.AssertExpectations(t)
	})

	t.Run("Remote add failure leaves local unchanged", func(t *testing.T) {
		w, remote, rec, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "p1").Return(api.Result{Envelope: api.Envelope{Message: "Produit introuvable"}})

		err := w.Add(ctx, model.Product{ID: "p1"})
		assert.EqualError(t, err, "Produit introuvable")
		assert.False(t, w.IsInWishlist(ctx, "p1"))
		assert.Empty(t, rec.events)
	})

	t.Run("Remote failure without message uses default", func(t *testing.T) {
		w, remote, _, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "p1").Return(api.Result{})

		assert.EqualError(t, w.Add(ctx, model.Product{ID: "p1"}), msgAddFailed)
	})

	t.Run("Remote remove failure keeps item", func(t *testing.T) {
		w, remote, _, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "p1").Return(ok())
		remote.On("RemoveFromWishlist", ctx, "p1").Return(api.Result{})
		require.NoError(t, w.Add(ctx, model.Product{ID: "p1"}))

		saved, err := w.Toggle(ctx, model.Product{ID: "p1"})
		assert.Error(t, err)
		assert.True(t, saved)
		assert.True(t, w.IsInWishlist(ctx, "p1"))
	})
}

func TestWishlist_Sync(t *testing.T) {
	t.Run("Server wins", func(t *testing.T) {
		w, remote, _, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "local-only").Return(ok())
		require.NoError(t, w.Add(ctx, model.Product{ID: "local-only"}))

		remote.On("Wishlist", ctx).Return(api.WishlistResult{
			Envelope: api.Envelope{Success: true},
			Products: []model.Product{{ID: "s1"}, {ID: "s2"}},
		})

		require.NoError(t, w.Sync(ctx))
		items := w.Items(ctx)
		require.Len(t, items, 2)
		assert.Equal(t, "s1", items[0].ID)
		assert.False(t, w.IsInWishlist(ctx, "local-only"))
	})

	t.Run("Failure keeps local", func(t *testing.T) {
		w, remote, _, ctx := setup(true)
		remote.On("AddToWishlist", ctx, "p1").Return(ok())
		require.NoError(t, w.Add(ctx, model.Product{ID: "p1"}))
		remote.On("Wishlist", ctx).Return(api.WishlistResult{Envelope: api.Envelope{Message: "down"}})

		assert.Error(t, w.Sync(ctx))
		assert.True(t, w.IsInWishlist(ctx, "p1"))
	})

	t.Run("Anonymous does nothing", func(t *testing.T) {
		w, remote, _, ctx := setup(false)
		assert.NoError(t, w.Sync(ctx))
		remote.AssertNotCalled(t, "Wishlist", mock.Anything)
	})
}

func TestWishlist_Clear(t *testing.T) {
	w, _, _, ctx := setup(false)
	require.NoError(t, w.Add(ctx, model.Product{ID: "p1"}))
	require.NoError(t, w.Clear(ctx))
	assert.Empty(t, w.Items(ctx))
}
