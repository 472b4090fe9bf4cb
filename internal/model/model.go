package model

import "github.com/shopspring/decimal"

const PlaceholderImage = "img/placeholder.png"

type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is the catalog record as returned by the remote API. Cart lines,
// wishlist entries and recently viewed entries keep a copy of it.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	OldPrice    decimal.Decimal `json:"oldPrice"`
	Image       []string        `json:"image,omitempty"`
	Img         string          `json:"img,omitempty"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"subCategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	Specs       []Spec          `json:"specifications,omitempty"`
}

func (p Product) PrimaryImage() string {
	if len(p.Image) > 0 && p.Image[0] != "" {
		return p.Image[0]
	}
	if p.Img != "" {
		return p.Img
	}
	return PlaceholderImage
}

func (p Product) HasDiscount() bool {
	return p.OldPrice.GreaterThan(p.Price)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Image string `json:"image,omitempty"`
}

const CategoryTypeCategory = "category"

type Banner struct {
	ID              string `json:"_id,omitempty"`
	Title           string `json:"title,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	ButtonText      string `json:"buttonText,omitempty"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	Image           string `json:"image"`
	Link            string `json:"link,omitempty"`
	Type            string `json:"type,omitempty"`
	Position        int    `json:"position"`
}

type Review struct {
	ID        string `json:"_id"`
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date,omitempty"`
}

// User is the profile kept for an authenticated visitor. The remote API
// names the identifier either _id or id.
type User struct {
	ID     string `json:"_id,omitempty"`
	AltID  string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (u User) UserID() string {
	if u.ID != "" {
		return u.ID
	}
	return u.AltID
}

type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Limit int `json:"limit,omitempty"`
}

type OrderItem struct {
	ID       string          `json:"_id,omitempty"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    []string        `json:"image,omitempty"`
}

// Order is an order as reported by the remote API (account history, tracking).
type Order struct {
	ID      string            `json:"_id"`
	Items   []OrderItem       `json:"items"`
	Amount  decimal.Decimal   `json:"amount"`
	Status  string            `json:"status"`
	Date    int64             `json:"date"`
	Payment bool              `json:"payment"`
	Address map[string]string `json:"address,omitempty"`
}

// CartItem is a product snapshot with a quantity. The product fields are
// flattened in JSON, which is the item shape the order endpoints accept.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
}

func (a Address) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
