package api

// Messages returned without a round trip. They are shown to the visitor as is.
const (
	MsgNotLoggedIn    = "Vous devez être connecté pour laisser un avis"
	MsgSessionExpired = "Session expirée, veuillez vous reconnecter"
	MsgUnauthorized   = "Non autorisé"

	ReasonNotLoggedIn = "not_logged_in"

	DefaultUserName = "Utilisateur"
)
