// Package schema holds the request and response bodies of the REST API.
package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// Table is the wire form of a table definition.
type Table struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Logo        string     `json:"logo,omitempty"`
	Trashed     bool       `json:"trashed"`
	TrashedAt   *time.Time `json:"trashedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTable is the POST /tables body. Slug is optional; a pluralized
// kebab-case slug is derived from the name when omitted.
type CreateTable struct {
	Name        string `json:"name" minLength:"1"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// UpdateTable is the PUT /tables/{slug} body.
type UpdateTable struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

// FromTable converts a domain table.
func FromTable(t *domain.Table) Table {
	return Table{
		ID:          t.ID.Hex(),
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Logo:        t.Logo,
		Trashed:     t.Trashed,
		TrashedAt:   t.TrashedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
