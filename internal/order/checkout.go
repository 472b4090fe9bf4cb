package order

import (
	"context"
	"strings"
	"time"

	"storefront-web/internal/api"
	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Gateway interface {
	PlaceOrder(ctx context.Context, req api.OrderRequest) api.OrderResult
	PlaceGuestOrder(ctx context.Context, req api.OrderRequest) api.OrderResult
}

type Session interface {
	IsLoggedIn(ctx context.Context) bool
	Profile(ctx context.Context) (model.User, bool)
}

type Cart interface {
	Lines(ctx context.Context) []model.CartItem
	Total(ctx context.Context) decimal.Decimal
	Clear(ctx context.Context) error
}

type CheckoutConfig struct {
	ShippingFee   decimal.Decimal
	GuestCheckout bool
}

type Checkout struct {
	gateway Gateway
	session Session
	cart    Cart
	guests  *GuestOrders
	last    *LastOrder
	cfg     CheckoutConfig
	metrics *metrics.AppMetrics
	now     func() time.Time
}

func NewCheckout(
	gateway Gateway,
	session Session,
	cart Cart,
	guests *GuestOrders,
	last *LastOrder,
	cfg CheckoutConfig,
	m *metrics.AppMetrics,
) *Checkout {
	return &Checkout{
		gateway: gateway,
		session: session,
		cart:    cart,
		guests:  guests,
		last:    last,
		cfg:     cfg,
		metrics: m,
		now:     time.Now,
	}
}

// Quote prices the current cart. Shipping is only charged on a non-empty cart.
func (c *Checkout) Quote(ctx context.Context) Quote {
	q := Quote{
		Lines:    c.cart.Lines(ctx),
		Subtotal: c.cart.Total(ctx),
		Shipping: decimal.Zero,
	}
	if !q.Empty() {
		q.Shipping = c.cfg.ShippingFee
	}
	q.Total = q.Subtotal.Add(q.Shipping)
	return q
}

// Place sends the cart as an order and keeps the result as the last order of
// the session. The cart is cleared only when the remote API accepts the order.
func (c *Checkout) Place(ctx context.Context, addr model.Address) (Record, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout.Place"),
	)

	// 1️⃣ Nothing to order
	lines := c.cart.Lines(ctx)
	if len(lines) == 0 {
		return Record{}, ErrCartEmpty
	}

	if err := ValidateAddress(addr); err != nil {
		return Record{}, err
	}

	// 2️⃣ Pick the endpoint
	loggedIn := c.session.IsLoggedIn(ctx)
	if !loggedIn && !c.cfg.GuestCheckout {
		return Record{}, ErrLoginRequired
	}

	amount := c.cart.Total(ctx).Add(c.cfg.ShippingFee)
	req := api.OrderRequest{Items: lines, Amount: amount, Address: addr}

	var res api.OrderResult
	if loggedIn {
		res = c.gateway.PlaceOrder(ctx, req)
	} else {
		res = c.gateway.PlaceGuestOrder(ctx, req)
	}

	if !res.Success {
		log.Warn("order rejected", zap.String("message", res.Message))
		return Record{}, &api.Error{Message: res.MessageOr(msgOrderFailed)}
	}

	// 3️⃣ Remember it for the confirmation page
	now := c.now()
	id := res.PlacedID()
	if id == "" {
		id = GenerateLocalID(now)
		log.Warn("remote accepted order without id, using local id", zap.String("order_id", id))
	}

	rec := Record{
		ID:      id,
		OrderID: id,
		Items:   lines,
		Amount:  amount,
		Address: addr,
		Date:    now.UnixMilli(),
		Status:  StatusPlaced,
	}
	if err := c.last.Put(ctx, rec); err != nil {
		log.Error("failed to keep last order", zap.Error(err))
	}

	// 4️⃣ Empty the cart
	if err := c.cart.Clear(ctx); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
	}

	c.metrics.RecordOrder(ctx, !loggedIn, amount)
	log.Info("order placed",
		zap.String("order_id", id),
		zap.Bool("guest", !loggedIn),
		zap.String("amount", amount.StringFixed(2)),
	)
	return rec, nil
}

type Confirmation struct {
	Order Record
	Guest bool
	// Recent guest orders, newest first, shown to guests.
	GuestOrders []Record
	// Guest orders adopted by the account on this confirmation.
	Linked int
}

// Confirm reads the last order once. A guest keeps it among the guest
// orders; an authenticated visitor adopts the guest orders placed with the
// profile email.
func (c *Checkout) Confirm(ctx context.Context) (Confirmation, error) {
	rec, ok := c.last.Take(ctx)
	if !ok {
		return Confirmation{}, ErrNoLastOrder
	}

	conf := Confirmation{Order: rec}

	if !c.session.IsLoggedIn(ctx) {
		conf.Guest = true
		if err := c.guests.Save(ctx, rec); err != nil {
			logger.FromCtx(ctx).Error("failed to save guest order", zap.Error(err))
		}
		conf.GuestOrders = c.guests.List(ctx)
		if len(conf.GuestOrders) > 5 {
			conf.GuestOrders = conf.GuestOrders[:5]
		}
		return conf, nil
	}

	if u, found := c.session.Profile(ctx); found && u.Email != "" {
		n, err := c.guests.Reconcile(ctx, u.Email)
		if err != nil {
			logger.FromCtx(ctx).Warn("guest order reconciliation failed", zap.Error(err))
		}
		conf.Linked = n
	}
	return conf, nil
}

// Prefill builds the checkout form defaults from the profile: the first word
// of the name is the first name, the rest the last name.
func (c *Checkout) Prefill(ctx context.Context) model.Address {
	if !c.session.IsLoggedIn(ctx) {
		return model.Address{}
	}
	u, ok := c.session.Profile(ctx)
	if !ok {
		return model.Address{}
	}

	first, last, _ := strings.Cut(u.Name, " ")
	return model.Address{
		FirstName: first,
		LastName:  last,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}
