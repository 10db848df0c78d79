package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
	"github.com/faciam-dev/gridbase/internal/server/middleware"
	"github.com/faciam-dev/gridbase/pkg/slugutil"
)

// TableHandler serves /tables.
type TableHandler struct {
	Tables TableStore
	Events events.Emitter
}

type tableSlugParam struct {
	Slug string `path:"slug"`
}

type createTableInput struct {
	Body schema.CreateTable
}

type tableOutput struct {
	Body schema.Table
}

type listTablesOutput struct {
	Body []schema.Table
}

type paginatedTablesOutput struct {
	Body schema.Paginated[schema.Table]
}

type updateTableInput struct {
	Slug string `path:"slug"`
	Body schema.UpdateTable
}

func perm(slug string) map[string]any {
	return map[string]any{middleware.PermissionMetadataKey: slug}
}

// RegisterTables installs the table endpoints.
func RegisterTables(api huma.API, h *TableHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listTables",
		Method:      http.MethodGet,
		Path:        "/tables",
		Summary:     "List tables",
		Tags:        []string{"Table"},
		Metadata:    perm(rbac.PermListTables),
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "listTablesPaginated",
		Method:      http.MethodGet,
		Path:        "/tables/paginated",
		Summary:     "List tables with pagination",
		Tags:        []string{"Table"},
		Metadata:    perm(rbac.PermListTables),
	}, h.listPaginated)
	huma.Register(api, huma.Operation{
		OperationID:   "createTable",
		Method:        http.MethodPost,
		Path:          "/tables",
		Summary:       "Create table",
		Tags:          []string{"Table"},
		Metadata:      perm(rbac.PermCreateTable),
		Errors:        []int{http.StatusConflict},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "getTable",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}",
		Summary:     "Read table",
		Tags:        []string{"Table"},
		Metadata:    perm(rbac.PermReadTable),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "updateTable",
		Method:      http.MethodPut,
		Path:        "/tables/{slug}",
		Summary:     "Update table",
		Tags:        []string{"Table"},
		Metadata:    perm(rbac.PermUpdateTable),
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID:   "trashTable",
		Method:        http.MethodDelete,
		Path:          "/tables/{slug}",
		Summary:       "Trash table",
		Tags:          []string{"Table"},
		Metadata:      perm(rbac.PermTrashTable),
		DefaultStatus: http.StatusNoContent,
	}, h.trash)
}

func (h *TableHandler) create(ctx context.Context, in *createTableInput) (*tableOutput, error) {
	slug := in.Body.Slug
	if slug == "" {
		slug = slugutil.MakePlural(in.Body.Name)
	}
	if !slugutil.Valid(slug) {
		return nil, validationErrorSingle("slug", "must be a URL-safe kebab-case slug")
	}
	t := &domain.Table{
		Name:        in.Body.Name,
		Slug:        slug,
		Description: in.Body.Description,
		Logo:        in.Body.Logo,
	}
	if err := h.Tables.Create(ctx, t); err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	h.Events.Emit(ctx, events.Event{Name: "table.created", Time: time.Now(), Data: schema.FromTable(t), ID: t.Slug})
	return &tableOutput{Body: schema.FromTable(t)}, nil
}

func (h *TableHandler) list(ctx context.Context, in *schema.PageParams) (*listTablesOutput, error) {
	tables, _, err := h.Tables.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	out := make([]schema.Table, len(tables))
	for i := range tables {
		out[i] = schema.FromTable(&tables[i])
	}
	return &listTablesOutput{Body: out}, nil
}

func (h *TableHandler) listPaginated(ctx context.Context, in *schema.PageParams) (*paginatedTablesOutput, error) {
	tables, total, err := h.Tables.List(ctx, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	items := make([]schema.Table, len(tables))
	for i := range tables {
		items[i] = schema.FromTable(&tables[i])
	}
	return &paginatedTablesOutput{Body: schema.Paginated[schema.Table]{
		Items: items, Total: total, Page: in.Page, PerPage: in.PerPage,
	}}, nil
}

func (h *TableHandler) get(ctx context.Context, in *tableSlugParam) (*tableOutput, error) {
	t, err := h.Tables.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	return &tableOutput{Body: schema.FromTable(t)}, nil
}

func (h *TableHandler) update(ctx context.Context, in *updateTableInput) (*tableOutput, error) {
	t, err := h.Tables.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	if in.Body.Name != "" {
		t.Name = in.Body.Name
	}
	if in.Body.Description != "" {
		t.Description = in.Body.Description
	}
	if in.Body.Logo != "" {
		t.Logo = in.Body.Logo
	}
	if err := h.Tables.Update(ctx, t); err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	h.Events.Emit(ctx, events.Event{Name: "table.updated", Time: time.Now(), Data: schema.FromTable(t), ID: t.Slug})
	return &tableOutput{Body: schema.FromTable(t)}, nil
}

func (h *TableHandler) trash(ctx context.Context, in *tableSlugParam) (*struct{}, error) {
	t, err := h.Tables.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	if err := h.Tables.Trash(ctx, t.ID); err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	h.Events.Emit(ctx, events.Event{Name: "table.trashed", Time: time.Now(), ID: t.Slug})
	return nil, nil
}
