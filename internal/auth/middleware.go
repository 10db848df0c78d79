package auth

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"github.com/faciam-dev/gridbase/internal/apperr"
	sm "github.com/faciam-dev/gridbase/internal/server/middleware"
)

// SessionCookie is the HttpOnly cookie carrying the session token.
const SessionCookie = "gridbase_session"

var (
	userKey   = sm.UserKey()
	claimsKey = sm.ClaimsKey()
)

// Middleware validates the session (cookie first, then Authorization bearer)
// and stores the user id in context. Failure is the fixed 401 shape and the
// request never reaches a handler.
func Middleware(j *JWT) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, w := humachi.Unwrap(ctx)
		token := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			token = c.Value
		}
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if token == "" {
			sm.WriteError(ctx, apperr.AuthRequired())
			return
		}
		claims, err := j.Validate(token)
		if err != nil {
			sm.WriteError(ctx, apperr.AuthRequired())
			return
		}
		c := context.WithValue(r.Context(), userKey, claims.Subject)
		c = context.WithValue(c, claimsKey, claims)
		next(humachi.NewContext(ctx.Operation(), r.WithContext(c), w))
	}
}

// UserFromContext returns the authenticated user id stored in the context.
func UserFromContext(ctx context.Context) string { return sm.UserFromContext(ctx) }
