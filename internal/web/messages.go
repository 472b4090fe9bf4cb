package web

import (
	"errors"
	"fmt"

	"storefront-web/internal/api"
	"storefront-web/internal/cart"
	"storefront-web/internal/order"
	"storefront-web/internal/product"
	"storefront-web/internal/wishlist"
)

const (
	msgGeneric         = "Une erreur est survenue"
	msgAddedToCart     = "Ajouté au panier !"
	msgRemovedFromCart = "Retiré du panier"
	msgCartUpdated     = "Panier mis à jour"
	msgAddedToWishlist = "Ajouté à la liste de souhaits !"
	msgRemovedWishlist = "Retiré de la liste de souhaits"
	msgOrderPlaced     = "Commande passée avec succès !"
	msgOrderFailed     = "Échec de la commande"
	msgReviewThanks    = "Merci pour votre avis !"
	msgReviewFailed    = "Erreur lors de l'envoi de l'avis"
	msgLoginFailed     = "Échec de la connexion"
	msgRegisterFailed  = "Échec de l'inscription"
	msgWelcome         = "Bienvenue !"
	msgLoggedOut       = "Vous êtes déconnecté"
	msgLoginRequired   = "Veuillez vous connecter"
	msgCredentials     = "Veuillez saisir votre email et votre mot de passe"
	msgSubscribed      = "Merci pour votre inscription à la newsletter !"
	msgSubscribeFailed = "Échec de l'inscription à la newsletter"
	msgProductNotFound = "Produit introuvable"
	msgOrderNotFound   = "Commande introuvable"
	msgWishlistFailed  = "Échec de la mise à jour de la liste"
)

func msgOrdersLinked(n int) string {
	return fmt.Sprintf("%d commande(s) liée(s) à votre compte", n)
}

// messageFor is the toast text for err. Remote failures carry their own
// message; fallback covers a remote failure without one.
func messageFor(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}

	switch {
	case errors.Is(err, order.ErrCartEmpty), errors.Is(err, cart.ErrCartEmpty):
		return "Votre panier est vide"
	case errors.Is(err, order.ErrAddressIncomplete):
		return "Veuillez remplir tous les champs obligatoires"
	case errors.Is(err, order.ErrInvalidEmail):
		return "Adresse email invalide"
	case errors.Is(err, order.ErrLoginRequired):
		return "Veuillez vous connecter pour passer commande"
	case errors.Is(err, product.ErrNotAuthenticated):
		return api.MsgNotLoggedIn
	case errors.Is(err, product.ErrRatingRequired):
		return "Veuillez sélectionner une note"
	case errors.Is(err, product.ErrCommentTooShort):
		return "Votre commentaire doit contenir au moins 10 caractères"
	case errors.Is(err, product.ErrProductNotFound), errors.Is(err, product.ErrMissingID):
		return msgProductNotFound
	case errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, wishlist.ErrInvalidProduct):
		return "Produit invalide"
	}

	if fallback != "" {
		return fallback
	}
	return msgGeneric
}
