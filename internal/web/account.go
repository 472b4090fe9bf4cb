package web

import (
	"net/http"
	"net/url"
	"strings"

	"storefront-web/internal/api"
	"storefront-web/internal/logger"
	"storefront-web/internal/model"
	"storefront-web/internal/render"

	"go.uber.org/zap"
)

type authPage struct {
	Name  string
	Email string
	Next  string
}

type accountPage struct {
	User        model.User
	Orders      []model.Order
	OrdersError string
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	if h.session.IsLoggedIn(r.Context()) {
		redirect(w, r, "/account")
		return
	}
	h.render(w, r, "login", "Connexion", authPage{Next: localPath(r.URL.Query().Get("next"), "")})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := localPath(r.FormValue("next"), "/")

	if email == "" || password == "" {
		h.flash.push(ctx, render.Error(msgCredentials))
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "login", "Connexion", authPage{Email: email, Next: next})
		return
	}

	linked, err := h.auth.Login(ctx, email, password)
	if err != nil {
		h.fail(ctx, err, msgLoginFailed)
		h.renderStatus(w, r, http.StatusUnauthorized, "login", "Connexion", authPage{Email: email, Next: next})
		return
	}

	h.success(ctx, msgWelcome)
	if linked > 0 {
		h.success(ctx, msgOrdersLinked(linked))
	}
	redirect(w, r, next)
}

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request) {
	if h.session.IsLoggedIn(r.Context()) {
		redirect(w, r, "/account")
		return
	}
	h.render(w, r, "register", "Inscription", authPage{})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		h.flash.push(ctx, render.Error("Veuillez remplir tous les champs"))
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "register", "Inscription", authPage{Name: name, Email: email})
		return
	}

	if err := h.auth.Register(ctx, name, email, password); err != nil {
		h.fail(ctx, err, msgRegisterFailed)
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "register", "Inscription", authPage{Name: name, Email: email})
		return
	}

	h.success(ctx, msgWelcome)
	redirect(w, r, "/")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx); err != nil {
		logger.FromCtx(ctx).Error("failed to clear session", zap.Error(err))
	}
	h.info(ctx, msgLoggedOut)
	redirect(w, r, "/")
}

func (h *Handler) requireLogin(w http.ResponseWriter, r *http.Request) bool {
	if h.session.IsLoggedIn(r.Context()) {
		return true
	}
	h.info(r.Context(), msgLoginRequired)
	redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()))
	return false
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireLogin(w, r) {
		return
	}

	page := accountPage{}
	if u, ok := h.session.Profile(ctx); ok {
		page.User = u
	}

	// Refresh the stored profile; the stored one is shown when the API fails.
	if res := h.api.Profile(ctx); res.Success && res.User != nil {
		page.User = *res.User
		if err := h.session.SetProfile(ctx, *res.User); err != nil {
			logger.FromCtx(ctx).Warn("failed to persist profile", zap.Error(err))
		}
	}

	res := h.api.UserOrders(ctx)
	if res.Success {
		page.Orders = res.Orders
	} else {
		page.OrdersError = res.MessageOr("Impossible de charger vos commandes")
	}

	h.render(w, r, "account", "Mon compte", page)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireLogin(w, r) {
		return
	}

	res := h.api.UpdateProfile(ctx, api.ProfileUpdate{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	})
	if err := res.Err(); err != nil {
		h.fail(ctx, err, "Échec de la mise à jour du profil")
		redirect(w, r, "/account")
		return
	}
	if res.User != nil {
		if err := h.session.SetProfile(ctx, *res.User); err != nil {
			logger.FromCtx(ctx).Warn("failed to persist profile", zap.Error(err))
		}
	}
	h.success(ctx, "Profil mis à jour")
	redirect(w, r, "/account")
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.cfg.Features.Newsletter {
		back(w, r, "/")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		h.flash.push(ctx, render.Error("Adresse email invalide"))
		back(w, r, "/")
		return
	}

	if err := h.api.Subscribe(ctx, email).Err(); err != nil {
		h.fail(ctx, err, msgSubscribeFailed)
	} else {
		h.success(ctx, msgSubscribed)
	}
	back(w, r, "/")
}
