package api

import (
	"context"
	"encoding/json"
	"net/url"

	"storefront-web/internal/model"

	"github.com/shopspring/decimal"
)

func (c *Client) Products(ctx context.Context) ProductsResult {
	var res ProductsResult
	c.request(ctx, "/api/product/list", get(), &res)
	return res
}

func (c *Client) Product(ctx context.Context, productID string) ProductResult {
	var res ProductResult
	c.request(ctx, "/api/product/single", post(map[string]any{"productId": productID}), &res)
	return res
}

func (c *Client) ProductsByCategory(ctx context.Context, category, subCategory string, page, limit int) ProductsResult {
	body := map[string]any{
		"category":    category,
		"subCategory": nil,
		"page":        page,
		"limit":       limit,
	}
	if subCategory != "" {
		body["subCategory"] = subCategory
	}

	var res ProductsResult
	c.request(ctx, "/api/product/category", post(body), &res)
	return res
}

type SearchQuery struct {
	Query    string           `json:"query"`
	Category string           `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	SortBy   string           `json:"sortBy,omitempty"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func (q SearchQuery) MarshalJSON() ([]byte, error) {
	type fields SearchQuery
	return json.Marshal(struct {
		fields
		MinPrice *json.Number `json:"minPrice,omitempty"`
		MaxPrice *json.Number `json:"maxPrice,omitempty"`
	}{fields(q), model.NumberPtr(q.MinPrice), model.NumberPtr(q.MaxPrice)})
}

func (c *Client) SearchProducts(ctx context.Context, q SearchQuery) ProductsResult {
	var res ProductsResult
	c.request(ctx, "/api/product/search", post(q), &res)
	return res
}

func (c *Client) HotDeals(ctx context.Context) ProductsResult {
	var res ProductsResult
	c.request(ctx, "/api/product/hotdeals", get(), &res)
	return res
}

func (c *Client) FeaturedProducts(ctx context.Context) ProductsResult {
	var res ProductsResult
	c.request(ctx, "/api/product/featured", get(), &res)
	return res
}

func (c *Client) IncrementViews(ctx context.Context, productID string) Result {
	var res Result
	c.request(ctx, "/api/product/view", post(map[string]any{"productId": productID}), &res)
	return res
}

func (c *Client) Categories(ctx context.Context) CategoriesResult {
	var res CategoriesResult
	c.request(ctx, "/api/category/list", get(), &res)
	return res
}

// Banners lists active banners, all of them when bannerType is empty.
func (c *Client) Banners(ctx context.Context, bannerType string) BannersResult {
	endpoint := "/api/banner/active"
	if bannerType != "" {
		endpoint += "?type=" + url.QueryEscape(bannerType)
	}

	var res BannersResult
	c.request(ctx, endpoint, get(), &res)
	return res
}

func (c *Client) PublicSettings(ctx context.Context) SettingsResult {
	var res SettingsResult
	c.request(ctx, "/api/settings/public", get(), &res)
	return res
}

func (c *Client) Subscribe(ctx context.Context, email string) Result {
	var res Result
	c.request(ctx, "/api/newsletter/subscribe", post(map[string]any{"email": email}), &res)
	return res
}
