package handler

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/rbac"
)

type listPermissionsOutput struct {
	Body []string
}

// RegisterPermissions installs GET /permissions, the slug catalogue groups
// pick from.
func RegisterPermissions(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listPermissions",
		Method:      http.MethodGet,
		Path:        "/permissions",
		Summary:     "List known permission slugs",
		Tags:        []string{"UserGroup"},
		Metadata:    perm(rbac.PermListPermissions),
	}, func(ctx context.Context, _ *struct{}) (*listPermissionsOutput, error) {
		return &listPermissionsOutput{Body: rbac.All()}, nil
	})
}
