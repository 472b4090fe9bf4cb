package wishlist

import (
	"context"
	"errors"

	"storefront-web/internal/api"
	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"
	"storefront-web/internal/storage"

	"go.uber.org/zap"
)

const (
	msgAddFailed    = "Échec de l'ajout à la liste"
	msgRemoveFailed = "Échec de la suppression de la liste"
)

var ErrInvalidProduct = errors.New("product has no id")

type Remote interface {
	AddToWishlist(ctx context.Context, productID string) api.Result
	RemoveFromWishlist(ctx context.Context, productID string) api.Result
	Wishlist(ctx context.Context) api.WishlistResult
}

type Session interface {
	IsLoggedIn(ctx context.Context) bool
}

type EventKind string

const (
	EventAdded   EventKind = "add"
	EventRemoved EventKind = "remove"
	EventSynced  EventKind = "sync"
	EventCleared EventKind = "clear"
)

type Event struct {
	Kind       EventKind
	ProductID  string
	InWishlist bool
	Count      int
}

type Listener interface {
	OnWishlistEvent(ctx context.Context, e Event)
}

type ListenerFunc func(ctx context.Context, e Event)

func (f ListenerFunc) OnWishlistEvent(ctx context.Context, e Event) { f(ctx, e) }

// Wishlist keeps saved products in local storage. For an authenticated
// visitor every change goes to the remote API first and the local copy only
// follows a successful remote call.
type Wishlist struct {
	local     *storage.Bucket
	key       string
	remote    Remote
	session   Session
	listeners []Listener
}

func New(local *storage.Bucket, key string, remote Remote, session Session, listeners ...Listener) *Wishlist {
	return &Wishlist{local: local, key: key, remote: remote, session: session, listeners: listeners}
}

func (w *Wishlist) Items(ctx context.Context) []model.Product {
	var items []model.Product
	if !w.local.Load(ctx, w.key, &items) {
		return []model.Product{}
	}
	return items
}

func (w *Wishlist) Count(ctx context.Context) int {
	return len(w.Items(ctx))
}

func (w *Wishlist) IsInWishlist(ctx context.Context, productID string) bool {
	return indexOf(w.Items(ctx), productID) >= 0
}

func (w *Wishlist) Add(ctx context.Context, p model.Product) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}

	if w.loggedIn(ctx) {
		if res := w.remote.AddToWishlist(ctx, p.ID); !res.Success {
			return &api.Error{Message: res.MessageOr(msgAddFailed)}
		}
	}

	items := w.Items(ctx)
	if indexOf(items, p.ID) < 0 {
		items = append(items, p)
		if err := w.save(ctx, items); err != nil {
			return err
		}
	}
	w.emit(ctx, Event{Kind: EventAdded, ProductID: p.ID, InWishlist: true, Count: len(items)})
	return nil
}

func (w *Wishlist) Remove(ctx context.Context, productID string) error {
	if w.loggedIn(ctx) {
		if res := w.remote.RemoveFromWishlist(ctx, productID); !res.Success {
			return &api.Error{Message: res.MessageOr(msgRemoveFailed)}
		}
	}

	items := w.Items(ctx)
	kept := items[:0]
	for _, it := range items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	if err := w.save(ctx, kept); err != nil {
		return err
	}
	w.emit(ctx, Event{Kind: EventRemoved, ProductID: productID, Count: len(kept)})
	return nil
}

// Toggle removes p when saved, adds it otherwise, and reports whether p is
// saved afterwards.
func (w *Wishlist) Toggle(ctx context.Context, p model.Product) (bool, error) {
	if w.IsInWishlist(ctx, p.ID) {
		if err := w.Remove(ctx, p.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := w.Add(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Wishlist) Clear(ctx context.Context) error {
	if err := w.local.Delete(ctx, w.key); err != nil {
		return err
	}
	w.emit(ctx, Event{Kind: EventCleared})
	return nil
}

// Sync replaces the local list with the remote one for an authenticated
// visitor. A failed fetch leaves the local list untouched.
func (w *Wishlist) Sync(ctx context.Context) error {
	if !w.loggedIn(ctx) {
		return nil
	}

	res := w.remote.Wishlist(ctx)
	if err := res.Err(); err != nil {
		logger.FromCtx(ctx).Warn("wishlist sync failed",
			zap.String("layer", "wishlist"),
			zap.String("message", res.Message),
		)
		return err
	}

	items := res.Products
	if items == nil {
		items = []model.Product{}
	}
	if err := w.save(ctx, items); err != nil {
		return err
	}
	w.emit(ctx, Event{Kind: EventSynced, Count: len(items)})
	return nil
}

func (w *Wishlist) loggedIn(ctx context.Context) bool {
	return w.session != nil && w.remote != nil && w.session.IsLoggedIn(ctx)
}

func (w *Wishlist) save(ctx context.Context, items []model.Product) error {
	if err := w.local.Save(ctx, w.key, items); err != nil {
		logger.FromCtx(ctx).Error("failed to save wishlist", zap.Error(err))
		return err
	}
	return nil
}

func (w *Wishlist) emit(ctx context.Context, e Event) {
	for _, l := range w.listeners {
		l.OnWishlistEvent(ctx, e)
	}
}

func indexOf(items []model.Product, productID string) int {
	for i, it := range items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

func MetricsListener(m *metrics.AppMetrics) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) {
		m.RecordWishlistEvent(ctx, string(e.Kind))
	})
}
