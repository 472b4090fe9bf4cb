package web

import (
	"errors"
	"net/http"
	"strings"

	"storefront-web/internal/model"
	"storefront-web/internal/order"
)

type checkoutPage struct {
	Quote         order.Quote
	Address       model.Address
	GuestCheckout bool
}

type thankYouPage struct {
	order.Confirmation
}

type trackPage struct {
	Query string
	Order *model.Order
	Error string
}

func (h *Handler) checkoutForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := h.checkout.Quote(ctx)
	if q.Empty() {
		h.fail(ctx, order.ErrCartEmpty, "")
		redirect(w, r, "/cart")
		return
	}

	h.render(w, r, "checkout", "Commande", checkoutPage{
		Quote:         q,
		Address:       h.checkout.Prefill(ctx),
		GuestCheckout: h.cfg.Features.GuestCheckout,
	})
}

func addressFromForm(r *http.Request) model.Address {
	field := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	return model.Address{
		FirstName: field("firstName"),
		LastName:  field("lastName"),
		Email:     field("email"),
		Phone:     field("phone"),
		Street:    field("street"),
		City:      field("city"),
		State:     field("state"),
		Zipcode:   field("zipcode"),
		Country:   field("country"),
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr := addressFromForm(r)

	if _, err := h.checkout.Place(ctx, addr); err != nil {
		h.fail(ctx, err, msgOrderFailed)
		if errors.Is(err, order.ErrCartEmpty) {
			redirect(w, r, "/cart")
			return
		}
		// The form is shown again with what the visitor typed.
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "checkout", "Commande", checkoutPage{
			Quote:         h.checkout.Quote(ctx),
			Address:       addr,
			GuestCheckout: h.cfg.Features.GuestCheckout,
		})
		return
	}

	h.success(ctx, msgOrderPlaced)
	redirect(w, r, "/thankyou")
}

func (h *Handler) thankYou(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conf, err := h.checkout.Confirm(ctx)
	if err != nil {
		redirect(w, r, "/")
		return
	}
	if conf.Linked > 0 {
		h.success(ctx, msgOrdersLinked(conf.Linked))
	}
	h.render(w, r, "thankyou", "Merci", thankYouPage{Confirmation: conf})
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := trackPage{Query: strings.TrimSpace(r.URL.Query().Get("id"))}

	if page.Query != "" {
		res := h.api.TrackOrder(ctx, page.Query)
		switch {
		case !res.Success:
			page.Error = res.MessageOr(msgOrderNotFound)
		case res.Order == nil:
			page.Error = msgOrderNotFound
		default:
			page.Order = res.Order
		}
	}

	h.render(w, r, "track", "Suivi de commande", page)
}
