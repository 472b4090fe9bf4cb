package web

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-web/internal/logger"
	"storefront-web/internal/product"
	"storefront-web/internal/render"

	"go.uber.org/zap"
)

type productsPage struct {
	product.Listing
	Pager render.Pager
}

// PageURL links to page p of the current listing.
func (p productsPage) PageURL(page int) string {
	q := p.Filter.Values(page).Encode()
	if q == "" {
		return "/products"
	}
	return "/products?" + q
}

type productPage struct {
	product.Detail
	Percentages map[int]int
	Stars       []render.Star
	Quantity    int
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	home := h.products.Home(r.Context())
	h.render(w, r, "home", "Accueil", home)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := product.ParseFilter(r.URL.Query(), h.cfg.ProductsPerPage)

	listing, err := h.products.Search(ctx, filter)
	if err != nil {
		h.fail(ctx, err, "Erreur lors du chargement des produits")
	}

	h.render(w, r, "products", "Produits", productsPage{
		Listing: listing,
		Pager:   render.Pagination(listing.Pagination.Page, listing.Pagination.Pages),
	})
}

func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("id")
	if id == "" {
		redirect(w, r, "/products")
		return
	}

	d, err := h.products.Detail(ctx, id)
	if err != nil {
		if !errors.Is(err, product.ErrProductNotFound) {
			logger.FromCtx(ctx).Error("failed to load product", zap.String("product_id", id), zap.Error(err))
		}
		h.renderStatus(w, r, http.StatusNotFound, "notfound", msgProductNotFound, msgProductNotFound)
		return
	}

	h.render(w, r, "product", d.Product.Name, productPage{
		Detail:      d,
		Percentages: render.RatingPercentages(d.Distribution, d.ReviewTotal),
		Stars:       render.Stars(d.Product.Rating),
		Quantity:    h.cart.Quantity(ctx, id),
	})
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.FormValue("product_id")
	target := "/product?id=" + id + "#reviews"
	if id == "" {
		redirect(w, r, "/products")
		return
	}
	if !h.cfg.Features.Reviews {
		redirect(w, r, target)
		return
	}

	// A missing or malformed rating is the same as no rating.
	rating, _ := strconv.Atoi(r.FormValue("rating"))

	if err := h.products.SubmitReview(ctx, id, rating, r.FormValue("comment")); err != nil {
		h.fail(ctx, err, msgReviewFailed)
		redirect(w, r, target)
		return
	}

	h.success(ctx, msgReviewThanks)
	redirect(w, r, target)
}
