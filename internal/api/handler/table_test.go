package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/apperr"
)

func TestCreateTableDerivesSlug(t *testing.T) {
	h := &TableHandler{Tables: &fakeTables{}, Events: &recEmitter{}}
	out, err := h.create(context.Background(), &createTableInput{Body: schema.CreateTable{Name: "Blog Post"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.Body.Slug != "blog-posts" {
		t.Fatalf("slug = %q, want blog-posts", out.Body.Slug)
	}
}

func TestCreateTableDuplicateSlug(t *testing.T) {
	h := &TableHandler{Tables: &fakeTables{}, Events: &recEmitter{}}
	ctx := context.Background()
	if _, err := h.create(ctx, &createTableInput{Body: schema.CreateTable{Name: "Post"}}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := h.create(ctx, &createTableInput{Body: schema.CreateTable{Name: "Post"}})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 409 {
		t.Fatalf("want 409 conflict, got %v", err)
	}
	if ae.Cause != apperr.CauseConflict {
		t.Fatalf("cause = %q", ae.Cause)
	}
}

func TestTrashedTableHiddenFromReads(t *testing.T) {
	ev := &recEmitter{}
	h := &TableHandler{Tables: &fakeTables{}, Events: ev}
	ctx := context.Background()
	out, err := h.create(ctx, &createTableInput{Body: schema.CreateTable{Name: "Task"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := h.trash(ctx, &tableSlugParam{Slug: out.Body.Slug}); err != nil {
		t.Fatalf("trash: %v", err)
	}
	_, err = h.get(ctx, &tableSlugParam{Slug: out.Body.Slug})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("want 404 after trash, got %v", err)
	}
	if !ev.has("table.trashed") {
		t.Fatal("missing table.trashed event")
	}
}

func TestGetUnknownTable(t *testing.T) {
	h := &TableHandler{Tables: &fakeTables{}, Events: &recEmitter{}}
	_, err := h.get(context.Background(), &tableSlugParam{Slug: "nope"})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("want 404, got %v", err)
	}
}

func TestCreateTableRejectsBadSlug(t *testing.T) {
	h := &TableHandler{Tables: &fakeTables{}, Events: &recEmitter{}}
	_, err := h.create(context.Background(), &createTableInput{Body: schema.CreateTable{Name: "X", Slug: "Not Valid!"}})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
}
