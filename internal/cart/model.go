package cart

import (
	"context"

	"storefront-web/internal/model"

	"github.com/shopspring/decimal"
)

// Line is one cart entry: a snapshot of the product taken when it was added
// and a quantity of at least 1.
type Line = model.CartItem

type Summary struct {
	Lines []Line
	Count int
	Total decimal.Decimal
}

func (s Summary) Empty() bool { return len(s.Lines) == 0 }

type EventKind string

const (
	EventAdded   EventKind = "add"
	EventRemoved EventKind = "remove"
	EventUpdated EventKind = "update"
	EventCleared EventKind = "clear"
)

// Event is emitted after every cart mutation. InCart tells whether ProductID
// is still in the cart, the state an add-to-cart button shows.
type Event struct {
	Kind      EventKind
	ProductID string
	InCart    bool
	Summary   Summary
}

type Listener interface {
	OnCartEvent(ctx context.Context, e Event)
}

type ListenerFunc func(ctx context.Context, e Event)

func (f ListenerFunc) OnCartEvent(ctx context.Context, e Event) { f(ctx, e) }
