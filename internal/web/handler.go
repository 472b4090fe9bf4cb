package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"storefront-web/internal/api"
	"storefront-web/internal/auth"
	"storefront-web/internal/cart"
	"storefront-web/internal/config"
	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"
	"storefront-web/internal/order"
	"storefront-web/internal/product"
	"storefront-web/internal/recent"
	"storefront-web/internal/render"
	"storefront-web/internal/storage"
	"storefront-web/internal/wishlist"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home", "products", "product", "cart", "wishlist", "checkout",
	"thankyou", "login", "register", "account", "track", "notfound",
}

// Deps are the collaborators the pages are built from. Local holds what a
// browser keeps across sessions; Session what it drops with the tab.
type Deps struct {
	Config     *config.Config
	Local      storage.Store
	Session    storage.Store
	Metrics    *metrics.AppMetrics
	HTTPClient *http.Client
}

type Handler struct {
	cfg      *config.Config
	api      *api.Client
	auth     *auth.Service
	session  *auth.Store
	cart     *cart.Cart
	wishlist *wishlist.Wishlist
	recent   *recent.Viewed
	products *product.Service
	checkout *order.Checkout
	flash    *flash
	pages    map[string]*template.Template
}

func NewHandler(d Deps) (*Handler, error) {
	cfg := d.Config
	keys := cfg.StorageKeys
	local := storage.NewBucket(d.Local, "local")
	sess := storage.NewBucket(d.Session, "session")

	session := auth.NewStore(local, keys)

	opts := []api.Option{api.WithMetrics(d.Metrics)}
	if d.HTTPClient != nil {
		opts = append(opts, api.WithHTTPClient(d.HTTPClient))
	}
	if cfg.APITimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.APITimeout))
	}
	client := api.NewClient(cfg.APIURL, session, opts...)

	viewed := recent.New(local, keys.RecentlyViewed)
	guests := order.NewGuestOrders(local, keys.GuestOrders, d.Metrics)
	c := cart.New(local, keys.Cart, cart.MetricsListener(d.Metrics))

	h := &Handler{
		cfg:      cfg,
		api:      client,
		auth:     auth.NewService(client, session, guests),
		session:  session,
		cart:     c,
		wishlist: wishlist.New(local, keys.Wishlist, client, session, wishlist.MetricsListener(d.Metrics)),
		recent:   viewed,
		products: product.NewService(client, session, viewed, d.Metrics, cfg.StoreName),
		checkout: order.NewCheckout(client, session, c, guests, order.NewLastOrder(sess, keys.LastOrder),
			order.CheckoutConfig{ShippingFee: cfg.ShippingFee, GuestCheckout: cfg.Features.GuestCheckout}, d.Metrics),
		flash: &flash{session: sess},
		pages: make(map[string]*template.Template, len(pageNames)),
	}

	funcs := h.funcs()
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		h.pages[name] = tpl
	}
	return h, nil
}

// Register mounts every page on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/", h.home).Methods(http.MethodGet)
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/product", h.productDetail).Methods(http.MethodGet)
	r.HandleFunc("/product/review", h.submitReview).Methods(http.MethodPost)

	r.HandleFunc("/cart", h.viewCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/add", h.addToCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/remove", h.removeFromCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/update", h.updateCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/toggle", h.toggleCart).Methods(http.MethodPost)
	r.HandleFunc("/buy-now", h.buyNow).Methods(http.MethodPost)

	r.HandleFunc("/wishlist", h.viewWishlist).Methods(http.MethodGet)
	r.HandleFunc("/wishlist/toggle", h.toggleWishlist).Methods(http.MethodPost)

	r.HandleFunc("/checkout", h.checkoutForm).Methods(http.MethodGet)
	r.HandleFunc("/checkout", h.placeOrder).Methods(http.MethodPost)
	r.HandleFunc("/thankyou", h.thankYou).Methods(http.MethodGet)
	r.HandleFunc("/track", h.trackOrder).Methods(http.MethodGet)

	r.HandleFunc("/login", h.loginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/register", h.registerForm).Methods(http.MethodGet)
	r.HandleFunc("/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	r.HandleFunc("/account", h.account).Methods(http.MethodGet)
	r.HandleFunc("/account", h.updateAccount).Methods(http.MethodPost)
	r.HandleFunc("/newsletter", h.subscribe).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(h.notFound)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, "notfound", "Page introuvable", nil)
}

/* ---------- RENDERING ---------- */

// Layout is what every page shows around its own content.
type Layout struct {
	Title         string
	StoreName     string
	Currency      string
	Features      config.Features
	Cart          cart.Summary
	CartIDs       map[string]bool
	WishlistCount int
	WishlistIDs   map[string]bool
	User          *model.User
	LoggedIn      bool
	Toasts        []render.Toast
	Path          string
	Page          any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, page any) {
	h.renderStatus(w, r, http.StatusOK, name, title, page)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	loggedIn := h.session.IsLoggedIn(ctx)
	if loggedIn && h.cfg.Features.Wishlist {
		// Server wins; a failed sync keeps the local list.
		_ = h.wishlist.Sync(ctx)
	}

	data := Layout{
		Title:         title,
		StoreName:     h.cfg.StoreName,
		Currency:      h.cfg.Currency,
		Features:      h.cfg.Features,
		Cart:          h.cart.Summary(ctx),
		CartIDs:       make(map[string]bool),
		WishlistIDs:   make(map[string]bool),
		LoggedIn:      loggedIn,
		Toasts:        h.flash.drain(ctx),
		Path:          r.URL.RequestURI(),
		Page:          page,
	}
	for _, l := range data.Cart.Lines {
		data.CartIDs[l.ID] = true
	}
	for _, p := range h.wishlist.Items(ctx) {
		data.WishlistIDs[p.ID] = true
	}
	data.WishlistCount = len(data.WishlistIDs)
	if u, ok := h.session.Profile(ctx); ok && loggedIn {
		data.User = &u
	}

	tpl, ok := h.pages[name]
	if !ok {
		log.Error("unknown page template", zap.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

/* ---------- REDIRECTS ---------- */

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// back redirects to the "redirect" form field when it is a local path, to
// fallback otherwise.
func back(w http.ResponseWriter, r *http.Request, fallback string) {
	redirect(w, r, localPath(r.FormValue("redirect"), fallback))
}

func localPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}
