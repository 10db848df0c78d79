package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// MenuHandler serves /menu.
type MenuHandler struct {
	Menus  MenuStore
	Events events.Emitter
}

type menuIDParam struct {
	ID string `path:"id"`
}

type createMenuInput struct {
	Body schema.CreateMenu
}

type patchMenuInput struct {
	ID   string `path:"id"`
	Body schema.PatchMenu
}

type menuOutput struct {
	Body schema.Menu
}

type listMenusOutput struct {
	Body []schema.Menu
}

type paginatedMenusOutput struct {
	Body schema.Paginated[schema.Menu]
}

// RegisterMenus installs the menu endpoints.
func RegisterMenus(api huma.API, h *MenuHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listMenus",
		Method:      http.MethodGet,
		Path:        "/menu",
		Summary:     "List menus",
		Tags:        []string{"Menu"},
		Metadata:    perm(rbac.PermListMenus),
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "listMenusPaginated",
		Method:      http.MethodGet,
		Path:        "/menu/paginated",
		Summary:     "List menus with pagination",
		Tags:        []string{"Menu"},
		Metadata:    perm(rbac.PermListMenus),
	}, h.listPaginated)
	huma.Register(api, huma.Operation{
		OperationID:   "createMenu",
		Method:        http.MethodPost,
		Path:          "/menu",
		Summary:       "Create menu",
		Tags:          []string{"Menu"},
		Metadata:      perm(rbac.PermCreateMenu),
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "getMenu",
		Method:      http.MethodGet,
		Path:        "/menu/{id}",
		Summary:     "Read menu",
		Tags:        []string{"Menu"},
		Metadata:    perm(rbac.PermReadMenu),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "patchMenu",
		Method:      http.MethodPatch,
		Path:        "/menu/{id}",
		Summary:     "Update menu",
		Tags:        []string{"Menu"},
		Metadata:    perm(rbac.PermUpdateMenu),
	}, h.patch)
	huma.Register(api, huma.Operation{
		OperationID:   "trashMenu",
		Method:        http.MethodDelete,
		Path:          "/menu/{id}",
		Summary:       "Trash menu",
		Tags:          []string{"Menu"},
		Metadata:      perm(rbac.PermTrashMenu),
		DefaultStatus: http.StatusNoContent,
	}, h.trash)
}

// parseParent accepts an empty value as "no parent".
func parseParent(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := parseID(hex)
	if err != nil {
		return nil, validationErrorSingle("parent", "must be a menu id")
	}
	return &id, nil
}

func (h *MenuHandler) create(ctx context.Context, in *createMenuInput) (*menuOutput, error) {
	parent, err := parseParent(in.Body.Parent)
	if err != nil {
		return nil, err
	}
	m := &domain.Menu{
		Label:    in.Body.Label,
		URL:      in.Body.URL,
		Icon:     in.Body.Icon,
		Parent:   parent,
		Position: in.Body.Position,
	}
	if err := h.Menus.Create(ctx, m); err != nil {
		return nil, mapStoreErr(err, "Menu")
	}
	h.Events.Emit(ctx, events.Event{Name: "menu.created", Time: time.Now(), Data: schema.FromMenu(m), ID: m.ID.Hex()})
	return &menuOutput{Body: schema.FromMenu(m)}, nil
}

func (h *MenuHandler) list(ctx context.Context, in *schema.PageParams) (*listMenusOutput, error) {
	menus, _, err := h.Menus.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	out := make([]schema.Menu, len(menus))
	for i := range menus {
		out[i] = schema.FromMenu(&menus[i])
	}
	return &listMenusOutput{Body: out}, nil
}

func (h *MenuHandler) listPaginated(ctx context.Context, in *schema.PageParams) (*paginatedMenusOutput, error) {
	menus, total, err := h.Menus.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	items := make([]schema.Menu, len(menus))
	for i := range menus {
		items[i] = schema.FromMenu(&menus[i])
	}
	return &paginatedMenusOutput{Body: schema.Paginated[schema.Menu]{
		Items: items, Total: total, Page: in.Page, PerPage: in.PerPage,
	}}, nil
}

func (h *MenuHandler) get(ctx context.Context, in *menuIDParam) (*menuOutput, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	m, err := h.Menus.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Menu")
	}
	return &menuOutput{Body: schema.FromMenu(m)}, nil
}

func (h *MenuHandler) patch(ctx context.Context, in *patchMenuInput) (*menuOutput, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	m, err := h.Menus.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Menu")
	}
	if in.Body.Label != nil {
		m.Label = *in.Body.Label
	}
	if in.Body.URL != nil {
		m.URL = *in.Body.URL
	}
	if in.Body.Icon != nil {
		m.Icon = *in.Body.Icon
	}
	if in.Body.Parent != nil {
		parent, err := parseParent(*in.Body.Parent)
		if err != nil {
			return nil, err
		}
		m.Parent = parent
	}
	if in.Body.Position != nil {
		m.Position = *in.Body.Position
	}
	if err := h.Menus.Update(ctx, m); err != nil {
		return nil, mapStoreErr(err, "Menu")
	}
	h.Events.Emit(ctx, events.Event{Name: "menu.updated", Time: time.Now(), Data: schema.FromMenu(m), ID: m.ID.Hex()})
	return &menuOutput{Body: schema.FromMenu(m)}, nil
}

func (h *MenuHandler) trash(ctx context.Context, in *menuIDParam) (*struct{}, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Menus.Trash(ctx, id); err != nil {
		return nil, mapStoreErr(err, "Menu")
	}
	h.Events.Emit(ctx, events.Event{Name: "menu.trashed", Time: time.Now(), ID: in.ID})
	return nil, nil
}
