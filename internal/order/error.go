package order

import "errors"

var (
	// -- Validation & Input --
	ErrCartEmpty         = errors.New("cart is empty")
	ErrAddressIncomplete = errors.New("shipping address is incomplete")
	ErrInvalidEmail      = errors.New("invalid email address")

	// -- Authentication --
	ErrLoginRequired = errors.New("login required to place an order")

	// -- Resource State --
	ErrNoLastOrder = errors.New("no order to confirm")
)

// Shown when the remote API rejects an order without a message.
const msgOrderFailed = "Échec de la commande"
