package visitor

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const (
	idKey  ctxKey = "visitor_id"
	newKey ctxKey = "visitor_new"
)

// HeaderName lets non-browser clients pin their visitor id.
const HeaderName = "X-Visitor-ID"

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

// WithNewID stores an id issued while serving this request.
func WithNewID(ctx context.Context, id string) context.Context {
	return context.WithValue(WithID(ctx, id), newKey, true)
}

// IsNew reports whether the visitor id was issued for this request rather
// than sent by the client.
func IsNew(ctx context.Context) bool {
	issued, _ := ctx.Value(newKey).(bool)
	return issued
}

func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(idKey).(string)
	return id
}

// Extract returns the visitor id carried by the request. The cookie wins
// over the header; anything that is not a UUID is ignored.
func Extract(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && valid(cookie.Value) {
		return cookie.Value
	}

	if h := r.Header.Get(HeaderName); valid(h) {
		return h
	}

	return ""
}

func New() string {
	return uuid.NewString()
}

func valid(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
