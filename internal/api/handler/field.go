package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
	"github.com/faciam-dev/gridbase/internal/rbac"
	"github.com/faciam-dev/gridbase/pkg/slugutil"
)

// FieldInvalidator drops cached field definitions for a table after a
// mutation. A nil invalidator means no cache is wired.
type FieldInvalidator interface {
	Invalidate(table primitive.ObjectID)
}

// FieldHandler serves /tables/{slug}/fields.
type FieldHandler struct {
	Tables   TableStore
	Fields   FieldStore
	Registry *fieldtype.Registry
	Cache    FieldInvalidator
	Events   events.Emitter
}

type fieldListParams struct {
	Table string `path:"slug"`
}

type fieldParams struct {
	Table string `path:"slug"`
	Field string `path:"fieldSlug"`
}

type createFieldInput struct {
	Table string `path:"slug"`
	Body  schema.CreateField
}

type updateFieldInput struct {
	Table string `path:"slug"`
	Field string `path:"fieldSlug"`
	Body  schema.UpdateField
}

type fieldOutput struct {
	Body schema.Field
}

type listFieldsOutput struct {
	Body []schema.Field
}

// RegisterFields installs the field endpoints.
func RegisterFields(api huma.API, h *FieldHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listFields",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}/fields",
		Summary:     "List fields of a table",
		Tags:        []string{"Field"},
		Metadata:    perm(rbac.PermListFields),
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID:   "createField",
		Method:        http.MethodPost,
		Path:          "/tables/{slug}/fields",
		Summary:       "Create field",
		Tags:          []string{"Field"},
		Metadata:      perm(rbac.PermCreateField),
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "getField",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}/fields/{fieldSlug}",
		Summary:     "Read field",
		Tags:        []string{"Field"},
		Metadata:    perm(rbac.PermReadField),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "updateField",
		Method:      http.MethodPut,
		Path:        "/tables/{slug}/fields/{fieldSlug}",
		Summary:     "Update field",
		Tags:        []string{"Field"},
		Metadata:    perm(rbac.PermUpdateField),
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID:   "trashField",
		Method:        http.MethodDelete,
		Path:          "/tables/{slug}/fields/{fieldSlug}",
		Summary:       "Trash field",
		Tags:          []string{"Field"},
		Metadata:      perm(rbac.PermTrashField),
		DefaultStatus: http.StatusNoContent,
	}, h.trash)
}

func (h *FieldHandler) table(ctx context.Context, slug string) (*domain.Table, error) {
	t, err := h.Tables.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	return t, nil
}

func (h *FieldHandler) invalidate(table primitive.ObjectID) {
	if h.Cache != nil {
		h.Cache.Invalidate(table)
	}
}

func (h *FieldHandler) create(ctx context.Context, in *createFieldInput) (*fieldOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	ft := fieldtype.Type(in.Body.Type)
	if !h.Registry.Has(ft) {
		supported := make([]string, 0)
		for _, s := range h.Registry.Types() {
			supported = append(supported, string(s))
		}
		return nil, validationErrorSingle("type",
			fmt.Sprintf("unsupported field type %q, expected one of %s", in.Body.Type, strings.Join(supported, ", ")))
	}
	cfg, errs, err := h.Registry.ValidateConfig(ft, in.Body.Configuration)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, validationError("Invalid field configuration", errs)
	}
	slug := in.Body.Slug
	if slug == "" {
		slug = slugutil.Make(in.Body.Name)
	}
	if !slugutil.Valid(slug) {
		return nil, validationErrorSingle("slug", "must be a URL-safe kebab-case slug")
	}
	f := &domain.Field{
		Table:         t.ID,
		Name:          in.Body.Name,
		Slug:          slug,
		Type:          in.Body.Type,
		Configuration: cfg,
	}
	if err := h.Fields.Create(ctx, f); err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	h.invalidate(t.ID)
	h.Events.Emit(ctx, events.Event{Name: "field.created", Time: time.Now(), Data: schema.FromField(f), ID: f.Slug})
	return &fieldOutput{Body: schema.FromField(f)}, nil
}

func (h *FieldHandler) list(ctx context.Context, in *fieldListParams) (*listFieldsOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	fields, err := h.Fields.ListByTable(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Field, len(fields))
	for i := range fields {
		out[i] = schema.FromField(&fields[i])
	}
	return &listFieldsOutput{Body: out}, nil
}

func (h *FieldHandler) get(ctx context.Context, in *fieldParams) (*fieldOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	f, err := h.Fields.GetBySlug(ctx, t.ID, in.Field)
	if err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	return &fieldOutput{Body: schema.FromField(f)}, nil
}

func (h *FieldHandler) update(ctx context.Context, in *updateFieldInput) (*fieldOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	f, err := h.Fields.GetBySlug(ctx, t.ID, in.Field)
	if err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	if in.Body.Name != "" {
		f.Name = in.Body.Name
	}
	if in.Body.Configuration != nil {
		cfg, errs, err := h.Registry.ValidateConfig(fieldtype.Type(f.Type), in.Body.Configuration)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			return nil, validationError("Invalid field configuration", errs)
		}
		f.Configuration = cfg
	}
	if err := h.Fields.Update(ctx, f); err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	h.invalidate(t.ID)
	h.Events.Emit(ctx, events.Event{Name: "field.updated", Time: time.Now(), Data: schema.FromField(f), ID: f.Slug})
	return &fieldOutput{Body: schema.FromField(f)}, nil
}

func (h *FieldHandler) trash(ctx context.Context, in *fieldParams) (*struct{}, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	f, err := h.Fields.GetBySlug(ctx, t.ID, in.Field)
	if err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	if err := h.Fields.Trash(ctx, f.ID); err != nil {
		return nil, mapStoreErr(err, "Field")
	}
	h.invalidate(t.ID)
	h.Events.Emit(ctx, events.Event{Name: "field.trashed", Time: time.Now(), ID: f.Slug})
	return nil, nil
}
