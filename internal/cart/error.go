package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidProduct = errors.New("product has no id")

	// -- Resource State --
	ErrCartEmpty = errors.New("cart is empty")
)
