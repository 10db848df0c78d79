package displaypolicy

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/gridbase/internal/fieldtype"
)

func TestApplyPlaceholder(t *testing.T) {
	p := &Policy{Placeholder: "n/a"}
	got := p.Apply(fieldtype.Display{Text: "-"})
	if got.Text != "n/a" {
		t.Fatalf("text = %q", got.Text)
	}
	got = p.Apply(fieldtype.Display{Text: "hello"})
	if got.Text != "hello" {
		t.Fatalf("non-placeholder text rewritten: %q", got.Text)
	}
}

func TestApplyBadgeLimit(t *testing.T) {
	p := &Policy{BadgeLimit: 2}
	got := p.Apply(fieldtype.Display{Badges: []string{"a", "b", "c", "d"}})
	want := fieldtype.Display{Badges: []string{"a", "b", "+2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("badges mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroPolicyIsIdentity(t *testing.T) {
	p := &Policy{}
	in := fieldtype.Display{Text: "-", Badges: []string{"a", "b"}}
	if diff := cmp.Diff(in, p.Apply(in)); diff != "" {
		t.Fatalf("zero policy changed display (-want +got):\n%s", diff)
	}
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte("placeholder: empty\nbadgeLimit: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(path, slog.Default())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	p := s.Get()
	if p.Placeholder != "empty" || p.BadgeLimit != 3 {
		t.Fatalf("policy = %+v", p)
	}
}

func TestStoreEmptyPathIsZeroPolicy(t *testing.T) {
	s := NewStore("", slog.Default())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if *s.Get() != (Policy{}) {
		t.Fatalf("policy = %+v", s.Get())
	}
}
