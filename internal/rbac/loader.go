package rbac

import (
	"context"

	"github.com/casbin/casbin/v2"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// GroupLister is the slice of the group repository the loader needs.
type GroupLister interface {
	ListAll(ctx context.Context) ([]domain.UserGroup, error)
}

// Load replaces the enforcer's policies with the current group permission
// sets. Called at boot and after any group mutation.
func Load(ctx context.Context, groups GroupLister, e *casbin.Enforcer) error {
	if groups == nil || e == nil {
		return nil
	}
	gs, err := groups.ListAll(ctx)
	if err != nil {
		return err
	}
	e.ClearPolicy()
	for _, g := range gs {
		sub := g.ID.Hex()
		for _, slug := range g.Permissions {
			if _, err := e.AddPolicy(sub, slug); err != nil {
				return err
			}
		}
	}
	return nil
}
