package middleware

import (
	"context"

	"github.com/casbin/casbin/v2"
	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/apperr"
)

// PermissionMetadataKey is the huma operation metadata key naming the
// permission slug an operation requires. Operations without it are open to
// any authenticated caller.
const PermissionMetadataKey = "permission"

// GroupResolver maps an authenticated user id to the groups it belongs to.
type GroupResolver func(ctx context.Context, user string) ([]string, error)

// Permission enforces the operation's permission slug against the casbin
// enforcer before the handler body runs. The subject is any of the user's
// groups; failure is the fixed 403 shape.
func Permission(enf *casbin.Enforcer, resolve GroupResolver) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		slug, _ := ctx.Operation().Metadata[PermissionMetadataKey].(string)
		if slug == "" {
			next(ctx)
			return
		}
		user := UserFromContext(ctx.Context())
		subjects := []string{user}
		if resolve != nil {
			if groups, err := resolve(ctx.Context(), user); err == nil {
				subjects = append(subjects, groups...)
			}
		}
		for _, s := range subjects {
			if ok, _ := enf.Enforce(s, slug); ok {
				next(ctx)
				return
			}
		}
		WriteError(ctx, apperr.PermissionRequired())
	}
}
