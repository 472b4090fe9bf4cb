package web

import (
	"context"
	"net/http"
	"strconv"

	"storefront-web/internal/model"
	"storefront-web/internal/order"
	"storefront-web/internal/product"
)

type cartPage struct {
	Quote order.Quote
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "cart", "Panier", cartPage{Quote: h.checkout.Quote(r.Context())})
}

// snapshot fetches the product as it is now, for storing in the cart or the
// wishlist.
func (h *Handler) snapshot(ctx context.Context, id string) (model.Product, error) {
	if id == "" {
		return model.Product{}, product.ErrMissingID
	}
	res := h.api.Product(ctx, id)
	if err := res.Err(); err != nil {
		return model.Product{}, err
	}
	if res.Product == nil {
		return model.Product{}, product.ErrProductNotFound
	}
	return *res.Product, nil
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.addProduct(ctx, r.FormValue("product_id")); err != nil {
		h.fail(ctx, err, msgProductNotFound)
	} else {
		h.success(ctx, msgAddedToCart)
	}
	back(w, r, "/cart")
}

func (h *Handler) addProduct(ctx context.Context, id string) error {
	p, err := h.snapshot(ctx, id)
	if err != nil {
		return err
	}
	_, err = h.cart.Add(ctx, p)
	return err
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.cart.Remove(ctx, r.FormValue("product_id")); err != nil {
		h.fail(ctx, err, msgGeneric)
	} else {
		h.info(ctx, msgRemovedFromCart)
	}
	back(w, r, "/cart")
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		h.fail(ctx, err, "Quantité invalide")
		back(w, r, "/cart")
		return
	}

	if _, err := h.cart.SetQuantity(ctx, r.FormValue("product_id"), qty); err != nil {
		h.fail(ctx, err, msgGeneric)
	} else {
		h.info(ctx, msgCartUpdated)
	}
	back(w, r, "/cart")
}

// toggleCart is the add-to-cart button of product cards: it removes a product
// already in the cart.
func (h *Handler) toggleCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.FormValue("product_id")

	if h.cart.IsInCart(ctx, id) {
		if _, err := h.cart.Remove(ctx, id); err != nil {
			h.fail(ctx, err, msgGeneric)
		} else {
			h.info(ctx, msgRemovedFromCart)
		}
		back(w, r, "/")
		return
	}

	if err := h.addProduct(ctx, id); err != nil {
		h.fail(ctx, err, msgProductNotFound)
	} else {
		h.success(ctx, msgAddedToCart)
	}
	back(w, r, "/")
}

// buyNow puts the product in the cart when it is not there yet and goes to
// the checkout.
func (h *Handler) buyNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.FormValue("product_id")

	if !h.cart.IsInCart(ctx, id) {
		if err := h.addProduct(ctx, id); err != nil {
			h.fail(ctx, err, msgProductNotFound)
			back(w, r, "/")
			return
		}
	}
	redirect(w, r, "/checkout")
}

type wishlistPage struct {
	Items []model.Product
}

func (h *Handler) viewWishlist(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Features.Wishlist {
		redirect(w, r, "/")
		return
	}
	h.render(w, r, "wishlist", "Liste de souhaits", wishlistPage{Items: h.wishlist.Items(r.Context())})
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.cfg.Features.Wishlist {
		back(w, r, "/")
		return
	}

	id := r.FormValue("product_id")
	if h.wishlist.IsInWishlist(ctx, id) {
		if err := h.wishlist.Remove(ctx, id); err != nil {
			h.fail(ctx, err, msgWishlistFailed)
		} else {
			h.info(ctx, msgRemovedWishlist)
		}
		back(w, r, "/wishlist")
		return
	}

	p, err := h.snapshot(ctx, id)
	if err == nil {
		err = h.wishlist.Add(ctx, p)
	}
	if err != nil {
		h.fail(ctx, err, msgWishlistFailed)
	} else {
		h.success(ctx, msgAddedToWishlist)
	}
	back(w, r, "/wishlist")
}
