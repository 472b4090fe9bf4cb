package middleware

import (
	"net/http"
	"time"

	"storefront-web/internal/visitor"
)

const visitorCookieMaxAge = 365 * 24 * time.Hour

// VisitorMiddleware resolves the visitor id from the cookie, issuing a new
// one when it is missing or malformed, and stores it in the request context.
func VisitorMiddleware(cookieName string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := visitor.Extract(r, cookieName)
			if id == "" {
				id = visitor.New()
				ctx = visitor.WithNewID(ctx, id)
			} else {
				ctx = visitor.WithID(ctx, id)
			}

			// Sliding expiry: refreshed on every response.
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(visitorCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
