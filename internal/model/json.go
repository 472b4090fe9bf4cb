package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Prices are written as bare JSON numbers, the form the remote API reads.
// decimal.Decimal reads both forms, so only marshalling is overridden.

// Number is d as a bare JSON number.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// NumberPtr is Number for optional amounts; nil stays nil.
func NumberPtr(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := Number(*d)
	return &n
}

type productFields Product

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		productFields
		Price    json.Number `json:"price"`
		OldPrice json.Number `json:"oldPrice"`
	}{productFields(p), Number(p.Price), Number(p.OldPrice)})
}

// MarshalJSON keeps the item flat; without it the promoted Product method
// would drop the quantity.
func (c CartItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		productFields
		Price    json.Number `json:"price"`
		OldPrice json.Number `json:"oldPrice"`
		Quantity int         `json:"quantity"`
	}{productFields(c.Product), Number(c.Price), Number(c.OldPrice), c.Quantity})
}

type orderItemFields OrderItem

func (i OrderItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		orderItemFields
		Price json.Number `json:"price"`
	}{orderItemFields(i), Number(i.Price)})
}

type orderFields Order

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		orderFields
		Amount json.Number `json:"amount"`
	}{orderFields(o), Number(o.Amount)})
}
