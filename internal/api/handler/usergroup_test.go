package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/apperr"
	"github.com/faciam-dev/gridbase/internal/rbac"
)

func newGroupFixture(t *testing.T) *UserGroupHandler {
	t.Helper()
	e, err := rbac.NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	groups := &fakeGroups{}
	return &UserGroupHandler{Groups: groups, Lister: groups, Enforcer: e, Events: &recEmitter{}}
}

func TestCreateGroupRejectsUnknownPermission(t *testing.T) {
	h := newGroupFixture(t)
	_, err := h.create(context.Background(), &createGroupInput{
		Body: schema.CreateUserGroup{Name: "Editors", Permissions: []string{"fly-to-the-moon"}},
	})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestGroupMutationsReloadPolicies(t *testing.T) {
	h := newGroupFixture(t)
	ctx := context.Background()

	created, err := h.create(ctx, &createGroupInput{
		Body: schema.CreateUserGroup{Name: "Editors", Permissions: []string{rbac.PermListTables}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sub := created.Body.ID
	if ok, _ := h.Enforcer.Enforce(sub, rbac.PermListTables); !ok {
		t.Fatal("created group should be allowed list-tables")
	}
	if ok, _ := h.Enforcer.Enforce(sub, rbac.PermCreateTable); ok {
		t.Fatal("created group should not be allowed create-table")
	}

	perms := []string{rbac.PermCreateTable}
	if _, err := h.patch(ctx, &patchGroupInput{ID: sub, Body: schema.PatchUserGroup{Permissions: &perms}}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if ok, _ := h.Enforcer.Enforce(sub, rbac.PermListTables); ok {
		t.Fatal("stale policy survived the reload")
	}
	if ok, _ := h.Enforcer.Enforce(sub, rbac.PermCreateTable); !ok {
		t.Fatal("new policy missing after reload")
	}
}

func TestPatchGroupKeepsUntouchedFields(t *testing.T) {
	h := newGroupFixture(t)
	ctx := context.Background()
	created, err := h.create(ctx, &createGroupInput{
		Body: schema.CreateUserGroup{Name: "Editors", Permissions: []string{rbac.PermListTables}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	name := "Writers"
	out, err := h.patch(ctx, &patchGroupInput{ID: created.Body.ID, Body: schema.PatchUserGroup{Name: &name}})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if out.Body.Name != "Writers" {
		t.Fatalf("name = %q", out.Body.Name)
	}
	if len(out.Body.Permissions) != 1 || out.Body.Permissions[0] != rbac.PermListTables {
		t.Fatalf("permissions changed: %+v", out.Body.Permissions)
	}
}
