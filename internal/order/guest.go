package order

import (
	"context"
	"strings"

	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/storage"

	"go.uber.org/zap"
)

const GuestOrdersLimit = 20

// GuestOrders are the orders a visitor placed without an account, newest
// first. They live in local storage until an account with the same email
// adopts them.
type GuestOrders struct {
	local   *storage.Bucket
	key     string
	metrics *metrics.AppMetrics
}

func NewGuestOrders(local *storage.Bucket, key string, m *metrics.AppMetrics) *GuestOrders {
	return &GuestOrders{local: local, key: key, metrics: m}
}

func (g *GuestOrders) List(ctx context.Context) []Record {
	var orders []Record
	if !g.local.Load(ctx, g.key, &orders) {
		return []Record{}
	}
	return orders
}

func (g *GuestOrders) Save(ctx context.Context, r Record) error {
	orders := append([]Record{r}, g.List(ctx)...)
	if len(orders) > GuestOrdersLimit {
		orders = orders[:GuestOrdersLimit]
	}
	return g.local.Save(ctx, g.key, orders)
}

// Reconcile drops the guest orders whose billing email matches email,
// ignoring case, and reports how many were dropped.
func (g *GuestOrders) Reconcile(ctx context.Context, email string) (int, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, nil
	}

	orders := g.List(ctx)
	if len(orders) == 0 {
		return 0, nil
	}

	remaining := make([]Record, 0, len(orders))
	for _, o := range orders {
		if !strings.EqualFold(o.Address.Email, email) {
			remaining = append(remaining, o)
		}
	}

	matched := len(orders) - len(remaining)
	if matched == 0 {
		return 0, nil
	}
	if err := g.local.Save(ctx, g.key, remaining); err != nil {
		return 0, err
	}

	logger.FromCtx(ctx).Info("guest orders linked to account",
		zap.String("layer", "order"),
		zap.Int("count", matched),
	)
	g.metrics.RecordReconciled(ctx, matched)
	return matched, nil
}

// LastOrder holds the order just placed until the confirmation page reads it.
type LastOrder struct {
	session *storage.Bucket
	key     string
}

func NewLastOrder(session *storage.Bucket, key string) *LastOrder {
	return &LastOrder{session: session, key: key}
}

func (l *LastOrder) Put(ctx context.Context, r Record) error {
	return l.session.Save(ctx, l.key, r)
}

// Take returns the last order and forgets it.
func (l *LastOrder) Take(ctx context.Context) (Record, bool) {
	var r Record
	if !l.session.Load(ctx, l.key, &r) {
		return Record{}, false
	}
	if err := l.session.Delete(ctx, l.key); err != nil {
		logger.FromCtx(ctx).Warn("failed to clear last order", zap.Error(err))
	}
	return r, true
}
