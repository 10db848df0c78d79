// Package middleware holds the huma middleware shared by all endpoints and
// the request-context keys they communicate through.
package middleware

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/apperr"
)

// ctxKey is used for storing values in request context.
type ctxKey string

const (
	userKey   ctxKey = "user"
	claimsKey ctxKey = "claims"
)

// UserKey returns the context key used to store the authenticated user id.
func UserKey() any { return userKey }

// ClaimsKey returns the context key used to store JWT claims.
func ClaimsKey() any { return claimsKey }

// UserFromContext returns the authenticated user id (hex) stored in context.
func UserFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userKey).(string); ok {
		return v
	}
	return ""
}

// WithUser stores the authenticated user id; exported for handler tests.
func WithUser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// WriteError emits the wire error shape ({message, cause}) directly, for
// middleware that rejects a request before huma handler dispatch.
func WriteError(ctx huma.Context, e *apperr.Error) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(e.Status)
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(e)
}
