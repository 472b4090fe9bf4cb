package cart

import (
	"context"

	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"
	"storefront-web/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the visitor's cart, kept in local storage under a single key.
type Cart struct {
	local     *storage.Bucket
	key       string
	listeners []Listener
}

func New(local *storage.Bucket, key string, listeners ...Listener) *Cart {
	return &Cart{local: local, key: key, listeners: listeners}
}

func (c *Cart) Lines(ctx context.Context) []Line {
	var lines []Line
	if !c.local.Load(ctx, c.key, &lines) {
		return []Line{}
	}
	return lines
}

func (c *Cart) Summary(ctx context.Context) Summary {
	return summarize(c.Lines(ctx))
}

// Add puts one unit of p in the cart.
func (c *Cart) Add(ctx context.Context, p model.Product) (Summary, error) {
	if p.ID == "" {
		return c.Summary(ctx), ErrInvalidProduct
	}

	lines := c.Lines(ctx)
	if i := indexOf(lines, p.ID); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, Line{Product: p, Quantity: 1})
	}
	return c.commit(ctx, lines, EventAdded, p.ID)
}

func (c *Cart) Remove(ctx context.Context, productID string) (Summary, error) {
	lines := c.Lines(ctx)
	kept := lines[:0]
	for _, l := range lines {
		if l.ID != productID {
			kept = append(kept, l)
		}
	}
	return c.commit(ctx, kept, EventRemoved, productID)
}

// SetQuantity sets the quantity of a line. A quantity of 0 or less removes
// it; an id that is not in the cart changes nothing.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) (Summary, error) {
	lines := c.Lines(ctx)
	i := indexOf(lines, productID)
	if i < 0 {
		return summarize(lines), nil
	}
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}

	lines[i].Quantity = quantity
	return c.commit(ctx, lines, EventUpdated, productID)
}

func (c *Cart) Clear(ctx context.Context) error {
	if err := c.local.Delete(ctx, c.key); err != nil {
		return err
	}
	c.emit(ctx, Event{Kind: EventCleared, Summary: summarize(nil)})
	return nil
}

// Total is the sum of price times quantity, without delivery.
func (c *Cart) Total(ctx context.Context) decimal.Decimal {
	return summarize(c.Lines(ctx)).Total
}

func (c *Cart) Count(ctx context.Context) int {
	return summarize(c.Lines(ctx)).Count
}

func (c *Cart) IsInCart(ctx context.Context, productID string) bool {
	return indexOf(c.Lines(ctx), productID) >= 0
}

func (c *Cart) Quantity(ctx context.Context, productID string) int {
	lines := c.Lines(ctx)
	if i := indexOf(lines, productID); i >= 0 {
		return lines[i].Quantity
	}
	return 0
}

func (c *Cart) commit(ctx context.Context, lines []Line, kind EventKind, productID string) (Summary, error) {
	if err := c.local.Save(ctx, c.key, lines); err != nil {
		logger.FromCtx(ctx).Error("failed to save cart",
			zap.String("layer", "cart"),
			zap.String("event", string(kind)),
			zap.Error(err),
		)
		return c.Summary(ctx), err
	}

	s := summarize(lines)
	c.emit(ctx, Event{
		Kind:      kind,
		ProductID: productID,
		InCart:    indexOf(lines, productID) >= 0,
		Summary:   s,
	})
	return s, nil
}

func (c *Cart) emit(ctx context.Context, e Event) {
	for _, l := range c.listeners {
		l.OnCartEvent(ctx, e)
	}
}

func summarize(lines []Line) Summary {
	s := Summary{Lines: lines, Total: decimal.Zero}
	if s.Lines == nil {
		s.Lines = []Line{}
	}
	for _, l := range lines {
		s.Count += l.Quantity
		s.Total = s.Total.Add(l.Subtotal())
	}
	return s
}

func indexOf(lines []Line, productID string) int {
	for i, l := range lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// MetricsListener records every cart event.
func MetricsListener(m *metrics.AppMetrics) Listener {
	return ListenerFunc(func(ctx context.Context, e Event) {
		m.RecordCartEvent(ctx, string(e.Kind), e.Summary.Count)
	})
}
