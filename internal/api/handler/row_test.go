package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/apperr"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
	"github.com/faciam-dev/gridbase/internal/server/middleware"
)

type rowFixture struct {
	handler *RowHandler
	fields  *fakeFields
	table   string
	tableID primitive.ObjectID
}

func newRowFixture(t *testing.T) *rowFixture {
	t.Helper()
	tables := &fakeTables{}
	th := &TableHandler{Tables: tables, Events: &recEmitter{}}
	created, err := th.create(context.Background(), &createTableInput{Body: schema.CreateTable{Name: "Task"}})
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	tableID, _ := primitive.ObjectIDFromHex(created.Body.ID)
	fields := &fakeFields{}
	return &rowFixture{
		handler: &RowHandler{
			Tables:   tables,
			Fields:   fields,
			Rows:     &fakeRows{},
			Registry: fieldtype.NewRegistry(),
			Events:   &recEmitter{},
		},
		fields:  fields,
		table:   created.Body.Slug,
		tableID: tableID,
	}
}

func (fx *rowFixture) addField(t *testing.T, name, slug, typ string, cfg map[string]any) {
	t.Helper()
	err := fx.fields.Create(context.Background(), &domain.Field{
		Table: fx.tableID, Name: name, Slug: slug, Type: typ, Configuration: cfg,
	})
	if err != nil {
		t.Fatalf("add field %s: %v", slug, err)
	}
}

func TestCreateRowAccumulatesErrors(t *testing.T) {
	fx := newRowFixture(t)
	fx.addField(t, "Title", "title", "shortText", map[string]any{"maxLength": 5})
	fx.addField(t, "Due", "due", "date", map[string]any{"format": "dd/MM/yyyy"})

	_, err := fx.handler.create(context.Background(), &createRowInput{
		Table: fx.table,
		Body: schema.RowPayload{Values: map[string]any{
			"title":   "way too long",
			"due":     "05/03/2024",
			"unknown": "x",
		}},
	})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("want all 3 errors reported, got %+v", ve.Errors)
	}
}

func TestCreateRowRendersDisplay(t *testing.T) {
	fx := newRowFixture(t)
	fx.addField(t, "Title", "title", "shortText", map[string]any{})
	fx.addField(t, "Due", "due", "date", map[string]any{"format": "dd/MM/yyyy"})
	fx.addField(t, "Status", "status", "selection", map[string]any{"options": []string{"open", "done"}})

	out, err := fx.handler.create(context.Background(), &createRowInput{
		Table: fx.table,
		Body: schema.RowPayload{Values: map[string]any{
			"title": "Ship it",
			"due":   "2024-03-05",
		}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := map[string]fieldtype.Display{
		"title":  {Text: "Ship it"},
		"due":    {Text: "05/03/2024"},
		"status": {Text: "-"},
	}
	if diff := cmp.Diff(want, out.Body.Display); diff != "" {
		t.Fatalf("display mismatch (-want +got):\n%s", diff)
	}
}

func TestRowRelationshipLabels(t *testing.T) {
	fx := newRowFixture(t)
	ctx := context.Background()

	// related rows live in the same fake row store
	rows := fx.handler.Rows.(*fakeRows)
	otherTable := primitive.NewObjectID()
	ada := &domain.Row{Table: otherTable, Values: map[string]any{"name": "Ada"}}
	linus := &domain.Row{Table: otherTable, Values: map[string]any{"name": "Linus"}}
	for _, r := range []*domain.Row{ada, linus} {
		if err := rows.Create(ctx, r); err != nil {
			t.Fatalf("seed related row: %v", err)
		}
	}

	fx.addField(t, "Assignees", "assignees", "relationship", map[string]any{
		"table": "people", "displayField": "name", "multiple": true,
	})

	out, err := fx.handler.create(ctx, &createRowInput{
		Table: fx.table,
		Body: schema.RowPayload{Values: map[string]any{
			"assignees": []any{ada.ID.Hex(), linus.ID.Hex()},
		}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := fieldtype.Display{Badges: []string{"Ada", "Linus"}}
	if diff := cmp.Diff(want, out.Body.Display["assignees"]); diff != "" {
		t.Fatalf("display mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRowClearsValueOnNull(t *testing.T) {
	fx := newRowFixture(t)
	fx.addField(t, "Title", "title", "shortText", map[string]any{})
	fx.addField(t, "Notes", "notes", "longText", map[string]any{})
	ctx := context.Background()

	created, err := fx.handler.create(ctx, &createRowInput{
		Table: fx.table,
		Body:  schema.RowPayload{Values: map[string]any{"title": "a", "notes": "b"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := fx.handler.update(ctx, &updateRowInput{
		Table: fx.table,
		ID:    created.Body.ID,
		Body:  schema.RowPayload{Values: map[string]any{"notes": nil}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := updated.Body.Values["notes"]; ok {
		t.Fatalf("notes not cleared: %+v", updated.Body.Values)
	}
	if updated.Body.Values["title"] != "a" {
		t.Fatalf("untouched value lost: %+v", updated.Body.Values)
	}
	if updated.Body.Display["notes"].Text != "-" {
		t.Fatalf("cleared value should render placeholder, got %+v", updated.Body.Display["notes"])
	}
}

func TestToggleReaction(t *testing.T) {
	fx := newRowFixture(t)
	fx.addField(t, "Title", "title", "shortText", map[string]any{})
	user := primitive.NewObjectID()
	ctx := middleware.WithUser(context.Background(), user.Hex())

	created, err := fx.handler.create(ctx, &createRowInput{
		Table: fx.table,
		Body:  schema.RowPayload{Values: map[string]any{"title": "a"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := &rowParams{Table: fx.table, ID: created.Body.ID}
	first, err := fx.handler.react(ctx, in)
	if err != nil {
		t.Fatalf("react: %v", err)
	}
	if !first.Body.Liked || first.Body.Reactions != 1 {
		t.Fatalf("first toggle = %+v", first.Body)
	}
	second, err := fx.handler.react(ctx, in)
	if err != nil {
		t.Fatalf("react: %v", err)
	}
	if second.Body.Liked || second.Body.Reactions != 0 {
		t.Fatalf("second toggle = %+v", second.Body)
	}
}
