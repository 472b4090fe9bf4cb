package web

import (
	"html/template"
	"net/url"
	"time"

	"storefront-web/internal/model"
	"storefront-web/internal/render"

	"github.com/shopspring/decimal"
)

// card is what the product card partial needs.
type card struct {
	Product    model.Product
	InCart     bool
	InWishlist bool
	Wishlist   bool
	Path       string
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"price": func(d decimal.Decimal) string {
			return render.FormatPrice(d, h.cfg.Currency)
		},
		"discount":    render.DiscountPercent,
		"stars":       render.Stars,
		"truncate":    render.Truncate,
		"orderNumber": render.OrderNumber,
		"image": func(p model.Product) string {
			return p.PrimaryImage()
		},
		"productURL": func(id string) string {
			return "/product?id=" + url.QueryEscape(id)
		},
		"date": func(ms int64) string {
			if ms <= 0 {
				return ""
			}
			return time.UnixMilli(ms).Format("02/01/2006")
		},
		"ratingScale": func() []int { return []int{5, 4, 3, 2, 1} },
		"ratingInput": func() []int { return []int{1, 2, 3, 4, 5} },
		"float":       func(n int) float64 { return float64(n) },
		"card": func(l Layout, p model.Product) card {
			return card{
				Product:    p,
				InCart:     l.CartIDs[p.ID],
				InWishlist: l.WishlistIDs[p.ID],
				Wishlist:   l.Features.Wishlist,
				Path:       l.Path,
			}
		},
	}
}
