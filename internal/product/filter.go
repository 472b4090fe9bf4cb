package product

import (
	"net/url"
	"strconv"
	"strings"

	"storefront-web/internal/api"

	"github.com/shopspring/decimal"
)

const DefaultSort = "date"

// Filter is the product listing query as carried by the /products URL.
type Filter struct {
	Query    string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
	Page     int
	Limit    int

	// defaultLimit is the page size links may leave out.
	defaultLimit int
}

// ParseFilter reads q, category, minPrice, maxPrice, sortBy, page and limit.
// Malformed numbers are ignored.
func ParseFilter(v url.Values, defaultLimit int) Filter {
	f := Filter{
		Query:    strings.TrimSpace(v.Get("q")),
		Category: strings.TrimSpace(v.Get("category")),
		MinPrice: parsePrice(v.Get("minPrice")),
		MaxPrice: parsePrice(v.Get("maxPrice")),
		SortBy:   v.Get("sortBy"),
		Page:     parsePositive(v.Get("page"), 1),
		Limit:    parsePositive(v.Get("limit"), defaultLimit),

		defaultLimit: defaultLimit,
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSort
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	return f
}

func (f Filter) SearchQuery() api.SearchQuery {
	return api.SearchQuery{
		Query:    f.Query,
		Category: f.Category,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		SortBy:   f.SortBy,
		Page:     f.Page,
		Limit:    f.Limit,
	}
}

// Values encodes the filter for page, as used by pagination links.
func (f Filter) Values(page int) url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", f.MaxPrice.String())
	}
	if f.SortBy != "" && f.SortBy != DefaultSort {
		v.Set("sortBy", f.SortBy)
	}
	if f.Limit > 0 && f.Limit != f.defaultLimit {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

func parsePrice(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
