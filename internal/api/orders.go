package api

import (
	"context"
	"encoding/json"

	"storefront-web/internal/model"

	"github.com/shopspring/decimal"
)

// Remote cart of the user. The storefront cart is kept locally; these calls
// exist for parity with the remote API.

func (c *Client) Cart(ctx context.Context) CartResult {
	var res CartResult
	c.request(ctx, "/api/cart/get", post(map[string]any{"userId": c.profileID(ctx)}), &res)
	return res
}

func (c *Client) AddToCart(ctx context.Context, itemID string) Result {
	var res Result
	c.request(ctx, "/api/cart/add", post(map[string]any{
		"userId": c.profileID(ctx),
		"itemId": itemID,
	}), &res)
	return res
}

func (c *Client) UpdateCart(ctx context.Context, itemID string, quantity int) Result {
	var res Result
	c.request(ctx, "/api/cart/update", post(map[string]any{
		"userId":   c.profileID(ctx),
		"itemId":   itemID,
		"quantity": quantity,
	}), &res)
	return res
}

func (c *Client) Wishlist(ctx context.Context) WishlistResult {
	var res WishlistResult
	c.request(ctx, "/api/wishlist/get", post(map[string]any{"userId": c.profileID(ctx)}), &res)
	return res
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) Result {
	return c.wishlistCall(ctx, "/api/wishlist/add", productID)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) Result {
	return c.wishlistCall(ctx, "/api/wishlist/remove", productID)
}

func (c *Client) wishlistCall(ctx context.Context, endpoint, productID string) Result {
	var res Result
	c.request(ctx, endpoint, post(map[string]any{
		"userId":    c.profileID(ctx),
		"productId": productID,
	}), &res)
	return res
}

func (c *Client) CheckWishlist(ctx context.Context, productID string) CheckWishlistResult {
	var res CheckWishlistResult
	c.request(ctx, "/api/wishlist/check", post(map[string]any{
		"userId":    c.profileID(ctx),
		"productId": productID,
	}), &res)
	return res
}

type OrderRequest struct {
	UserID  string           `json:"userId,omitempty"`
	Items   []model.CartItem `json:"items"`
	Amount  decimal.Decimal  `json:"amount"`
	Address model.Address    `json:"address"`
}

func (r OrderRequest) MarshalJSON() ([]byte, error) {
	type fields OrderRequest
	return json.Marshal(struct {
		fields
		Amount json.Number `json:"amount"`
	}{fields(r), model.Number(r.Amount)})
}

// PlaceOrder places an order for the stored user. The user id is filled in
// from the session.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) OrderResult {
	req.UserID = c.profileID(ctx)

	var res OrderResult
	c.request(ctx, "/api/order/place", post(req), &res)
	return res
}

func (c *Client) PlaceGuestOrder(ctx context.Context, req OrderRequest) OrderResult {
	req.UserID = ""

	var res OrderResult
	c.request(ctx, "/api/order/guest-place", post(req), &res)
	return res
}

func (c *Client) UserOrders(ctx context.Context) OrdersResult {
	var res OrdersResult
	c.request(ctx, "/api/order/userorders", post(map[string]any{"userId": c.profileID(ctx)}), &res)
	return res
}

func (c *Client) TrackOrder(ctx context.Context, orderID string) TrackResult {
	var res TrackResult
	c.request(ctx, "/api/order/track", post(map[string]any{"orderId": orderID}), &res)
	return res
}
