package rbac

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/domain"
)

type staticGroups []domain.UserGroup

func (s staticGroups) ListAll(context.Context) ([]domain.UserGroup, error) { return s, nil }

func TestLoadAndEnforce(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	editors := primitive.NewObjectID()
	viewers := primitive.NewObjectID()
	groups := staticGroups{
		{ID: editors, Name: "editors", Permissions: []string{PermListTables, PermCreateRow}},
		{ID: viewers, Name: "viewers", Permissions: []string{PermListTables}},
	}
	if err := Load(context.Background(), groups, e); err != nil {
		t.Fatalf("load: %v", err)
	}

	if ok, _ := e.Enforce(editors.Hex(), PermCreateRow); !ok {
		t.Fatal("editors should be allowed to create rows")
	}
	if ok, _ := e.Enforce(viewers.Hex(), PermCreateRow); ok {
		t.Fatal("viewers must not create rows")
	}
	if ok, _ := e.Enforce(viewers.Hex(), PermListTables); !ok {
		t.Fatal("viewers should list tables")
	}
}

func TestLoadReplacesStalePolicies(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	g := primitive.NewObjectID()
	if err := Load(context.Background(), staticGroups{{ID: g, Permissions: []string{PermTrashTable}}}, e); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Load(context.Background(), staticGroups{{ID: g, Permissions: []string{PermListTables}}}, e); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ok, _ := e.Enforce(g.Hex(), PermTrashTable); ok {
		t.Fatal("revoked permission still enforced")
	}
}

func TestAllContainsReadSlugs(t *testing.T) {
	known := map[string]bool{}
	for _, s := range All() {
		known[s] = true
	}
	// every read endpoint declares one of these; a slug missing from All()
	// can never be granted to a group
	for _, s := range []string{
		PermReadTable, PermReadField, PermReadRow,
		PermReadGroup, PermReadMenu, PermReadSetting,
	} {
		if !known[s] {
			t.Fatalf("%q missing from All()", s)
		}
	}
}

func TestAllIsStableAndUnique(t *testing.T) {
	a, b := All(), All()
	if len(a) != len(b) {
		t.Fatalf("unstable length: %d vs %d", len(a), len(b))
	}
	seen := map[string]bool{}
	for i, s := range a {
		if s != b[i] {
			t.Fatalf("unstable order at %d: %s vs %s", i, s, b[i])
		}
		if seen[s] {
			t.Fatalf("duplicate slug %q", s)
		}
		seen[s] = true
	}
}
