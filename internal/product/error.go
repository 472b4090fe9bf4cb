package product

import "errors"

var (
	// -- Lookup --
	ErrProductNotFound = errors.New("product not found")
	ErrMissingID       = errors.New("missing product id")

	// -- Reviews --
	ErrNotAuthenticated = errors.New("login required to review")
	ErrRatingRequired   = errors.New("rating must be between 1 and 5")
	ErrCommentTooShort  = errors.New("review comment too short")
)

const (
	MinCommentLength = 10

	msgReviewFailed = "Erreur lors de l'envoi de l'avis"
)
