package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// UserGroup is the wire form of a permission group.
type UserGroup struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions"`
	Trashed     bool       `json:"trashed"`
	TrashedAt   *time.Time `json:"trashedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserGroup is the POST /user-group body.
type CreateUserGroup struct {
	Name        string   `json:"name" minLength:"1"`
	Permissions []string `json:"permissions"`
}

// PatchUserGroup is the PATCH body; nil slices leave the field untouched.
type PatchUserGroup struct {
	Name        *string   `json:"name,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

// FromUserGroup converts a domain group.
func FromUserGroup(g *domain.UserGroup) UserGroup {
	perms := g.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserGroup{
		ID:          g.ID.Hex(),
		Name:        g.Name,
		Permissions: perms,
		Trashed:     g.Trashed,
		TrashedAt:   g.TrashedAt,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
