package fieldtype

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/gridbase/internal/domain"
)

func TestDateRender(t *testing.T) {
	r := NewRegistry()
	f := domain.Field{Slug: "due", Type: string(Date), Configuration: map[string]any{"format": "dd/MM/yyyy"}}

	d, err := r.Render(f, "2024-03-05")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if d.Text != "05/03/2024" {
		t.Fatalf("got %q, want 05/03/2024", d.Text)
	}

	d, err = r.Render(f, nil)
	if err != nil {
		t.Fatalf("render absent: %v", err)
	}
	if d.Text != Placeholder {
		t.Fatalf("absent date rendered %q", d.Text)
	}
}

func TestRelationshipRender(t *testing.T) {
	r := NewRegistry()
	f := domain.Field{Slug: "owner", Type: string(Relationship), Configuration: map[string]any{
		"table": "people", "displayField": "name", "multiple": true,
	}}

	d, err := r.Render(f, []Ref{})
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if d.Text != Placeholder || len(d.Badges) != 0 {
		t.Fatalf("empty refs should render placeholder, got %+v", d)
	}

	d, err = r.Render(f, []Ref{{ID: "1", Label: "Ada"}, {ID: "2", Label: "Linus"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Ada", "Linus"}, d.Badges); diff != "" {
		t.Fatalf("badges mismatch (-want +got):\n%s", diff)
	}
}

func TestRelationshipRenderUnresolved(t *testing.T) {
	r := NewRegistry()
	f := domain.Field{Slug: "owner", Type: string(Relationship), Configuration: map[string]any{
		"table": "people", "displayField": "name",
	}}
	// raw id that was never resolved upstream
	d, err := r.Render(f, "0123456789abcdef01234567")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if d.Text != Placeholder {
		t.Fatalf("unresolved ref should render placeholder, got %+v", d)
	}

	d, err = r.Render(f, []Ref{{ID: "1"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(d.Badges) != 1 || d.Badges[0] != Placeholder {
		t.Fatalf("missing label should render placeholder badge, got %+v", d)
	}
}

func TestGoLayout(t *testing.T) {
	cases := map[string]string{
		"dd/MM/yyyy":       "02/01/2006",
		"yyyy-MM-dd":       "2006-01-02",
		"d MMM yy":         "2 Jan 06",
		"HH:mm:ss":         "15:04:05",
		"MMMM d, yyyy":     "January 2, 2006",
		"dd.MM.yyyy HH:mm": "02.01.2006 15:04",
	}
	for pattern, want := range cases {
		if got := GoLayout(pattern); got != want {
			t.Fatalf("GoLayout(%q) = %q, want %q", pattern, got, want)
		}
	}
}
