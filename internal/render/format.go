package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders amount with two decimals followed by the currency.
func FormatPrice(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + currency
}

// DiscountPercent is the rounded reduction from oldPrice to price, 0 when
// there is none.
func DiscountPercent(oldPrice, price decimal.Decimal) int {
	if !oldPrice.IsPositive() || oldPrice.LessThanOrEqual(price) {
		return 0
	}
	pct := decimal.NewFromInt(1).Sub(price.Div(oldPrice)).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// Truncate cuts text to n runes and appends "...".
func Truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}

// OrderNumber is the short reference shown to customers: "#" and the last
// eight characters of the id, upper-cased.
func OrderNumber(id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "#" + strings.ToUpper(id)
}

type Star string

const (
	StarFull  Star = "full"
	StarHalf  Star = "half"
	StarEmpty Star = "empty"
)

// Stars lays out a rating on five stars, with a half star from .5.
func Stars(rating float64) []Star {
	stars := make([]Star, 5)
	for i := 1; i <= 5; i++ {
		switch {
		case float64(i) <= rating:
			stars[i-1] = StarFull
		case float64(i)-0.5 <= rating:
			stars[i-1] = StarHalf
		default:
			stars[i-1] = StarEmpty
		}
	}
	return stars
}

// RatingPercentages maps every star from 1 to 5 to its rounded share of total.
func RatingPercentages(distribution map[int]int, total int) map[int]int {
	out := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	if total <= 0 {
		return out
	}
	for star := 1; star <= 5; star++ {
		out[star] = int(decimal.NewFromInt(int64(distribution[star])).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(0).IntPart())
	}
	return out
}
