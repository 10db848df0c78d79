package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/displaypolicy"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
	"github.com/faciam-dev/gridbase/internal/server/middleware"
	"github.com/faciam-dev/gridbase/pkg/metrics"
)

// RowHandler serves /tables/{slug}/rows.
type RowHandler struct {
	Tables   TableStore
	Fields   FieldSource
	Rows     RowStore
	Registry *fieldtype.Registry
	Policy   *displaypolicy.Store
	Events   events.Emitter
}

type rowListParams struct {
	Table string `path:"slug"`
	schema.PageParams
}

type rowParams struct {
	Table string `path:"slug"`
	ID    string `path:"id"`
}

type createRowInput struct {
	Table string `path:"slug"`
	Body  schema.RowPayload
}

type updateRowInput struct {
	Table string `path:"slug"`
	ID    string `path:"id"`
	Body  schema.RowPayload
}

type rowOutput struct {
	Body schema.Row
}

type listRowsOutput struct {
	Body []schema.Row
}

type paginatedRowsOutput struct {
	Body schema.Paginated[schema.Row]
}

type reactionOutput struct {
	Body schema.Reaction
}

// RegisterRows installs the row endpoints.
func RegisterRows(api huma.API, h *RowHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "listRows",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}/rows",
		Summary:     "List rows of a table",
		Tags:        []string{"Row"},
		Metadata:    perm(rbac.PermListRows),
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "listRowsPaginated",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}/rows/paginated",
		Summary:     "List rows with pagination",
		Tags:        []string{"Row"},
		Metadata:    perm(rbac.PermListRows),
	}, h.listPaginated)
	huma.Register(api, huma.Operation{
		OperationID:   "createRow",
		Method:        http.MethodPost,
		Path:          "/tables/{slug}/rows",
		Summary:       "Create row",
		Tags:          []string{"Row"},
		Metadata:      perm(rbac.PermCreateRow),
		Errors:        []int{http.StatusUnprocessableEntity},
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "getRow",
		Method:      http.MethodGet,
		Path:        "/tables/{slug}/rows/{id}",
		Summary:     "Read row",
		Tags:        []string{"Row"},
		Metadata:    perm(rbac.PermReadRow),
	}, h.get)
	huma.Register(api, huma.Operation{
		OperationID: "updateRow",
		Method:      http.MethodPut,
		Path:        "/tables/{slug}/rows/{id}",
		Summary:     "Update row",
		Tags:        []string{"Row"},
		Metadata:    perm(rbac.PermUpdateRow),
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID:   "trashRow",
		Method:        http.MethodDelete,
		Path:          "/tables/{slug}/rows/{id}",
		Summary:       "Trash row",
		Tags:          []string{"Row"},
		Metadata:      perm(rbac.PermTrashRow),
		DefaultStatus: http.StatusNoContent,
	}, h.trash)
	huma.Register(api, huma.Operation{
		OperationID: "toggleReaction",
		Method:      http.MethodPost,
		Path:        "/tables/{slug}/rows/{id}/reaction",
		Summary:     "Toggle the current user's reaction on a row",
		Tags:        []string{"Row"},
		Metadata:    perm(rbac.PermReactRow),
	}, h.react)
}

func (h *RowHandler) table(ctx context.Context, slug string) (*domain.Table, error) {
	t, err := h.Tables.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "Table")
	}
	return t, nil
}

func (h *RowHandler) validate(ctx context.Context, table primitive.ObjectID, payload map[string]any) (map[string]any, []domain.Field, error) {
	fields, err := h.Fields.ListByTable(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	values, errs, err := h.Registry.ValidateRow(fields, payload)
	if err != nil {
		return nil, nil, err
	}
	if len(errs) > 0 {
		metrics.ValidationFailures.Add(float64(len(errs)))
		return nil, nil, validationError("Invalid row values", errs)
	}
	return values, fields, nil
}

// resolveRefs batch-loads every row referenced by a relationship value across
// the given rows. Trashed referents still resolve so stale links keep their
// last known label.
func (h *RowHandler) resolveRefs(ctx context.Context, fields []domain.Field, rows []domain.Row) (map[string]domain.Row, error) {
	var ids []primitive.ObjectID
	seen := map[string]bool{}
	for _, r := range rows {
		for _, f := range fields {
			if f.Type != string(fieldtype.Relationship) {
				continue
			}
			for _, hexID := range refIDs(r.Values[f.Slug]) {
				if seen[hexID] {
					continue
				}
				seen[hexID] = true
				if id, err := primitive.ObjectIDFromHex(hexID); err == nil {
					ids = append(ids, id)
				}
			}
		}
	}
	if len(ids) == 0 {
		return map[string]domain.Row{}, nil
	}
	return h.Rows.FindByIDs(ctx, ids)
}

func refIDs(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// refLabel extracts the display text of a referenced row.
func refLabel(related domain.Row, displayField string) string {
	v, ok := related.Values[displayField]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (h *RowHandler) render(fields []domain.Field, r *domain.Row, resolved map[string]domain.Row) (map[string]fieldtype.Display, error) {
	display := make(map[string]fieldtype.Display, len(fields))
	for _, f := range fields {
		value := r.Values[f.Slug]
		if f.Type == string(fieldtype.Relationship) {
			displayField, _ := f.Configuration["displayField"].(string)
			hexes := refIDs(value)
			refs := make([]fieldtype.Ref, 0, len(hexes))
			for _, hexID := range hexes {
				related, ok := resolved[hexID]
				if !ok {
					refs = append(refs, fieldtype.Ref{ID: hexID})
					continue
				}
				refs = append(refs, fieldtype.Ref{ID: hexID, Label: refLabel(related, displayField)})
			}
			value = refs
		}
		d, err := h.Registry.Render(f, value)
		if err != nil {
			return nil, err
		}
		if h.Policy != nil {
			d = h.Policy.Get().Apply(d)
		}
		display[f.Slug] = d
	}
	return display, nil
}

func (h *RowHandler) toSchema(ctx context.Context, fields []domain.Field, rows []domain.Row) ([]schema.Row, error) {
	resolved, err := h.resolveRefs(ctx, fields, rows)
	if err != nil {
		return nil, err
	}
	user := middleware.UserFromContext(ctx)
	out := make([]schema.Row, len(rows))
	for i := range rows {
		s := schema.FromRow(&rows[i], user)
		s.Display, err = h.render(fields, &rows[i], resolved)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (h *RowHandler) one(ctx context.Context, table primitive.ObjectID, r *domain.Row) (*rowOutput, error) {
	fields, err := h.Fields.ListByTable(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := h.toSchema(ctx, fields, []domain.Row{*r})
	if err != nil {
		return nil, err
	}
	return &rowOutput{Body: rows[0]}, nil
}

func (h *RowHandler) create(ctx context.Context, in *createRowInput) (*rowOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	values, _, err := h.validate(ctx, t.ID, in.Body.Values)
	if err != nil {
		return nil, err
	}
	r := &domain.Row{Table: t.ID, Values: values}
	if err := h.Rows.Create(ctx, r); err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	h.Events.Emit(ctx, events.Event{Name: "row.created", Time: time.Now(), Data: r.Values, ID: r.ID.Hex()})
	return h.one(ctx, t.ID, r)
}

func (h *RowHandler) list(ctx context.Context, in *rowListParams) (*listRowsOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	rows, _, err := h.Rows.ListByTable(ctx, t.ID, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	fields, err := h.Fields.ListByTable(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	out, err := h.toSchema(ctx, fields, rows)
	if err != nil {
		return nil, err
	}
	return &listRowsOutput{Body: out}, nil
}

func (h *RowHandler) listPaginated(ctx context.Context, in *rowListParams) (*paginatedRowsOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	rows, total, err := h.Rows.ListByTable(ctx, t.ID, mongorepo.Page{Page: in.Page, PerPage: in.PerPage})
	if err != nil {
		return nil, err
	}
	fields, err := h.Fields.ListByTable(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	items, err := h.toSchema(ctx, fields, rows)
	if err != nil {
		return nil, err
	}
	return &paginatedRowsOutput{Body: schema.Paginated[schema.Row]{
		Items: items, Total: total, Page: in.Page, PerPage: in.PerPage,
	}}, nil
}

func (h *RowHandler) get(ctx context.Context, in *rowParams) (*rowOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	r, err := h.Rows.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	return h.one(ctx, t.ID, r)
}

func (h *RowHandler) update(ctx context.Context, in *updateRowInput) (*rowOutput, error) {
	t, err := h.table(ctx, in.Table)
	if err != nil {
		return nil, err
	}
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	r, err := h.Rows.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	values, _, err := h.validate(ctx, t.ID, in.Body.Values)
	if err != nil {
		return nil, err
	}
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	for slug, v := range values {
		if v == nil {
			delete(r.Values, slug)
			continue
		}
		r.Values[slug] = v
	}
	if err := h.Rows.Update(ctx, r); err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	h.Events.Emit(ctx, events.Event{Name: "row.updated", Time: time.Now(), Data: r.Values, ID: r.ID.Hex()})
	return h.one(ctx, t.ID, r)
}

func (h *RowHandler) trash(ctx context.Context, in *rowParams) (*struct{}, error) {
	if _, err := h.table(ctx, in.Table); err != nil {
		return nil, err
	}
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	if err := h.Rows.Trash(ctx, id); err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	h.Events.Emit(ctx, events.Event{Name: "row.trashed", Time: time.Now(), ID: in.ID})
	return nil, nil
}

func (h *RowHandler) react(ctx context.Context, in *rowParams) (*reactionOutput, error) {
	if _, err := h.table(ctx, in.Table); err != nil {
		return nil, err
	}
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(middleware.UserFromContext(ctx))
	if err != nil {
		return nil, err
	}
	liked, err := h.Rows.ToggleReaction(ctx, id, userID)
	if err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	r, err := h.Rows.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Row")
	}
	return &reactionOutput{Body: schema.Reaction{Liked: liked, Reactions: len(r.Reactions)}}, nil
}
