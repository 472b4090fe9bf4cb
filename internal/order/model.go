package order

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"storefront-web/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const StatusPlaced = "Order Placed"

// Record is an order as the storefront remembers it: the last order of the
// session and the guest orders kept on the visitor's side.
type Record struct {
	ID      string           `json:"_id"`
	OrderID string           `json:"orderId"`
	Items   []model.CartItem `json:"items"`
	Amount  decimal.Decimal  `json:"amount"`
	Address model.Address    `json:"address"`
	Date    int64            `json:"date"`
	Status  string           `json:"status"`
}

// Reference is the order identifier shown to the visitor and used for tracking.
func (r Record) Reference() string {
	if r.ID != "" {
		return r.ID
	}
	return r.OrderID
}

func (r Record) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Shipping is what the amount holds beyond the items.
func (r Record) Shipping() decimal.Decimal {
	s := r.Amount.Sub(r.Subtotal())
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

func (r Record) PlacedAt() time.Time {
	return time.UnixMilli(r.Date)
}

// Quote is the price breakdown shown before placing an order.
type Quote struct {
	Lines    []model.CartItem
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

func (q Quote) Empty() bool { return len(q.Lines) == 0 }

// ValidateAddress checks the fields the checkout form requires.
func ValidateAddress(a model.Address) error {
	required := map[string]string{
		"firstName": a.FirstName,
		"lastName":  a.LastName,
		"email":     a.Email,
		"phone":     a.Phone,
		"street":    a.Street,
		"city":      a.City,
	}
	for _, name := range []string{"firstName", "lastName", "email", "phone", "street", "city"} {
		if strings.TrimSpace(required[name]) == "" {
			return fmt.Errorf("%w: %s", ErrAddressIncomplete, name)
		}
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// GenerateLocalID builds an id for an order the remote API accepted without
// returning one, e.g. LOCALM1Z2X3Y4AB12.
func GenerateLocalID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return "LOCAL" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)+random)
}
