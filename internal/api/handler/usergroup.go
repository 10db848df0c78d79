package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/logger"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// UserGroupHandler serves /user-group. Every mutation reloads the enforcer so
// permission changes take effect without a restart.
type UserGroupHandler struct {
	Groups   GroupStore
	Lister   rbac.GroupLister
	Enforcer *casbin.Enforcer
	Events   events.Emitter
}

type groupIDParam struct {
	ID string `path:"id"`
}

type createGroupInput struct {
	Body schema.CreateUserGroup
}

type patchGroupInput struct {
	ID   string `path:"id"`
	Body schema.PatchUserGroup
}

type groupOutput struct {
	Body schema.UserGroup
}

type listGroupsOutput struct {
	Body []schema.UserGroup
}

type paginatedGroupsOutput struct {
	Body schema.Paginated[schema.UserGroup]
}

// RegisterUserGroups installs the user-group endpoints.
func RegisterUserGroups(api huma.API, h *UserGroupHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listUserGroups",
		Method:      http.MethodGet,
		Path:        "/user-group",
		Summary:     "List user groups",
		Tags:        []string{"UserGroup"},
		Metadata:    perm(rbac.PermListGroups),
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "listUserGroupsPaginated",
		Method:      http.MethodGet,
		Path:        "/user-group/paginated",
		Summary:     "List user groups with pagination",
		Tags:        []string{"UserGroup"},
		Metadata:    perm(rbac.PermListGroups),
	}, h.listPaginated)
	huma.Register(api, huma.Operation{
		OperationID:   "createUserGroup",
		Method:        http.MethodPost,
		Path:          "/user-group",
		Summary:       "Create user group",
		Tags:          []string{"UserGroup"},
		Metadata:      perm(rbac.PermCreateGroup),
		Errors:        []int{http.StatusConflict},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "getUserGroup",
		Method:      http.MethodGet,
		Path:        "/user-group/{id}",
		Summary:     "Read user group",
		Tags:        []string{"UserGroup"},
		Metadata:    perm(rbac.PermReadGroup),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "patchUserGroup",
		Method:      http.MethodPatch,
		Path:        "/user-group/{id}",
		Summary:     "Update user group",
		Tags:        []string{"UserGroup"},
		Metadata:    perm(rbac.PermUpdateGroup),
	}, h.patch)
}

// checkPermissions rejects slugs outside the known permission set.
func checkPermissions(slugs []string) error {
	known := map[string]bool{}
	for _, s := range rbac.All() {
		known[s] = true
	}
	for _, s := range slugs {
		if !known[s] {
			return validationErrorSingle("permissions", fmt.Sprintf("unknown permission %q", s))
		}
	}
	return nil
}

func (h *UserGroupHandler) reload(ctx context.Context) {
	if err := rbac.Load(ctx, h.Lister, h.Enforcer); err != nil {
		logger.L.Error("reload policies", "err", err)
	}
}

func (h *UserGroupHandler) create(ctx context.Context, in *createGroupInput) (*groupOutput, error) {
	if err := checkPermissions(in.Body.Permissions); err != nil {
		return nil, err
	}
	g := &domain.UserGroup{Name: in.Body.Name, Permissions: in.Body.Permissions}
	if err := h.Groups.Create(ctx, g); err != nil {
		return nil, mapStoreErr(err, "User group")
	}
	h.reload(ctx)
	h.Events.Emit(ctx, events.Event{Name: "user-group.created", Time: time.Now(), Data: schema.FromUserGroup(g), ID: g.ID.Hex()})
	return &groupOutput{Body: schema.FromUserGroup(g)}, nil
}

func (h *UserGroupHandler) list(ctx context.Context, in *schema.PageParams) (*listGroupsOutput, error) {
	groups, _, err := h.Groups.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	out := make([]schema.UserGroup, len(groups))
	for i := range groups {
		out[i] = schema.FromUserGroup(&groups[i])
	}
	return &listGroupsOutput{Body: out}, nil
}

func (h *UserGroupHandler) listPaginated(ctx context.Context, in *schema.PageParams) (*paginatedGroupsOutput, error) {
	groups, total, err := h.Groups.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	items := make([]schema.UserGroup, len(groups))
	for i := range groups {
		items[i] = schema.FromUserGroup(&groups[i])
	}
	return &paginatedGroupsOutput{Body: schema.Paginated[schema.UserGroup]{
		Items: items, Total: total, Page: in.Page, PerPage: in.PerPage,
	}}, nil
}

func (h *UserGroupHandler) get(ctx context.Context, in *groupIDParam) (*groupOutput, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "User group")
	}
	return &groupOutput{Body: schema.FromUserGroup(g)}, nil
}

func (h *UserGroupHandler) patch(ctx context.Context, in *patchGroupInput) (*groupOutput, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "User group")
	}
	if in.Body.Name != nil {
		g.Name = *in.Body.Name
	}
	if in.Body.Permissions != nil {
		if err := checkPermissions(*in.Body.Permissions); err != nil {
			return nil, err
		}
		g.Permissions = *in.Body.Permissions
	}
	if err := h.Groups.Update(ctx, g); err != nil {
		return nil, mapStoreErr(err, "User group")
	}
	h.reload(ctx)
	h.Events.Emit(ctx, events.Event{Name: "user-group.updated", Time: time.Now(), Data: schema.FromUserGroup(g), ID: g.ID.Hex()})
	return &groupOutput{Body: schema.FromUserGroup(g)}, nil
}
