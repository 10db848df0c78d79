package fieldtype

import (
	"testing"

	"github.com/faciam-dev/gridbase/internal/domain"
)

func sampleFields() []domain.Field {
	return []domain.Field{
		{Slug: "title", Type: string(ShortText), Configuration: map[string]any{"maxLength": 5}},
		{Slug: "body", Type: string(LongText), Configuration: map[string]any{}},
		{Slug: "due", Type: string(Date), Configuration: map[string]any{"format": "dd/MM/yyyy"}},
		{Slug: "status", Type: string(Selection), Configuration: map[string]any{"options": []string{"open", "done"}}},
		{Slug: "owner", Type: string(Relationship), Configuration: map[string]any{"table": "people", "displayField": "name"}},
	}
}

func TestValidateRowAccumulatesAllErrors(t *testing.T) {
	r := NewRegistry()
	payload := map[string]any{
		"title":   "far too long",
		"status":  "closed",
		"owner":   "nothex",
		"ghost":   "boo",
		"another": 1,
	}
	_, errs, err := r.ValidateRow(sampleFields(), payload)
	if err != nil {
		t.Fatalf("internal error: %v", err)
	}
	if len(errs) != 5 {
		t.Fatalf("want all 5 errors in one pass, got %d: %v", len(errs), errs)
	}
	got := map[string]bool{}
	for _, e := range errs {
		got[e.Field] = true
	}
	for _, slug := range []string{"title", "status", "owner", "ghost", "another"} {
		if !got[slug] {
			t.Fatalf("missing error for %q: %v", slug, errs)
		}
	}
}

func TestValidateRowUnknownSlugRejected(t *testing.T) {
	r := NewRegistry()
	_, errs, err := r.ValidateRow(sampleFields(), map[string]any{"ghost": "boo"})
	if err != nil {
		t.Fatalf("internal error: %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "ghost" || errs[0].Message != "unknown field" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateRowCoercesAndPasses(t *testing.T) {
	r := NewRegistry()
	payload := map[string]any{
		"title":  "ok",
		"due":    "2024-03-05T10:30:00Z",
		"status": "open",
		"owner":  "0123456789abcdef01234567",
	}
	out, errs, err := r.ValidateRow(sampleFields(), payload)
	if err != nil || len(errs) > 0 {
		t.Fatalf("errs=%v err=%v", errs, err)
	}
	if out["due"] != "2024-03-05" {
		t.Fatalf("date not coerced to storage form: %v", out["due"])
	}
	if out["title"] != "ok" || out["status"] != "open" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestValidateRowAbsentClearsValue(t *testing.T) {
	r := NewRegistry()
	out, errs, err := r.ValidateRow(sampleFields(), map[string]any{"title": nil})
	if err != nil || len(errs) > 0 {
		t.Fatalf("errs=%v err=%v", errs, err)
	}
	if v, ok := out["title"]; !ok || v != nil {
		t.Fatalf("null should clear the value, got %v", out)
	}
}

func TestValidateRowUnregisteredTypeIsInternal(t *testing.T) {
	r := NewRegistry()
	fields := []domain.Field{{Slug: "x", Type: "hologram"}}
	_, _, err := r.ValidateRow(fields, map[string]any{"x": "v"})
	if err == nil {
		t.Fatal("want internal error for unregistered stored type")
	}
}

func TestSelectionMultiple(t *testing.T) {
	r := NewRegistry()
	f := domain.Field{Slug: "tags", Type: string(Selection), Configuration: map[string]any{
		"options": []string{"a", "b", "c"}, "multiple": true,
	}}
	out, errs, err := r.ValidateRow([]domain.Field{f}, map[string]any{"tags": []any{"a", "c"}})
	if err != nil || len(errs) > 0 {
		t.Fatalf("errs=%v err=%v", errs, err)
	}
	got, _ := out["tags"].([]string)
	if len(got) != 2 {
		t.Fatalf("unexpected coerced value: %v", out["tags"])
	}

	_, errs, _ = r.ValidateRow([]domain.Field{f}, map[string]any{"tags": []any{"a", "z"}})
	if len(errs) != 1 {
		t.Fatalf("want one error for unknown option, got %v", errs)
	}
}
