package api

import "storefront-web/internal/model"

type ProductsResult struct {
	Envelope
	Products   []model.Product   `json:"products"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

type ProductResult struct {
	Envelope
	Product *model.Product `json:"product"`
}

type CategoriesResult struct {
	Envelope
	Categories []model.Category `json:"categories"`
}

type BannersResult struct {
	Envelope
	Banners []model.Banner `json:"banners"`
}

type SettingsResult struct {
	Envelope
	Settings map[string]any `json:"settings"`
}

type AuthResult struct {
	Envelope
	Token string      `json:"token"`
	User  *model.User `json:"user,omitempty"`
}

type ProfileResult struct {
	Envelope
	User *model.User `json:"user"`
}

type CartResult struct {
	Envelope
	CartData map[string]int `json:"cartData"`
}

type WishlistResult struct {
	Envelope
	Products []model.Product `json:"products"`
}

type CheckWishlistResult struct {
	Envelope
	InWishlist bool `json:"inWishlist"`
}

type OrderResult struct {
	Envelope
	OrderID string       `json:"orderId"`
	Order   *model.Order `json:"order,omitempty"`
}

// PlacedID is the identifier the remote assigned to a new order: orderId
// when present, otherwise order._id.
func (r OrderResult) PlacedID() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	if r.Order != nil {
		return r.Order.ID
	}
	return ""
}

type OrdersResult struct {
	Envelope
	Orders []model.Order `json:"orders"`
}

type TrackResult struct {
	Envelope
	Order *model.Order `json:"order"`
}

type ReviewsResult struct {
	Envelope
	Reviews       []model.Review    `json:"reviews"`
	Distribution  map[int]int       `json:"distribution"`
	AverageRating float64           `json:"averageRating"`
	Pagination    *model.Pagination `json:"pagination,omitempty"`
}

type ReviewResult struct {
	Envelope
	Review *model.Review `json:"review,omitempty"`
}

type CanReviewResult struct {
	Envelope
	CanReview bool   `json:"canReview"`
	Reason    string `json:"reason,omitempty"`
}

// Result is returned by endpoints whose answer carries nothing but the envelope.
type Result struct {
	Envelope
}
