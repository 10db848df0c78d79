package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// Field is the wire form of a field definition; Configuration is the coerced
// type-specific blob.
type Field struct {
	ID            string         `json:"id"`
	Table         string         `json:"table"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Type          string         `json:"type"`
	Configuration map[string]any `json:"configuration"`
	Trashed       bool           `json:"trashed"`
	TrashedAt     *time.Time     `json:"trashedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// CreateField is the POST /tables/{slug}/fields body.
type CreateField struct {
	Name          string         `json:"name" minLength:"1"`
	Slug          string         `json:"slug,omitempty"`
	Type          string         `json:"type" minLength:"1"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// UpdateField is the PUT body; the type itself is immutable once set.
type UpdateField struct {
	Name          string         `json:"name,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// FromField converts a domain field.
func FromField(f *domain.Field) Field {
	return Field{
		ID:            f.ID.Hex(),
		Table:         f.Table.Hex(),
		Name:          f.Name,
		Slug:          f.Slug,
		Type:          f.Type,
		Configuration: f.Configuration,
		Trashed:       f.Trashed,
		TrashedAt:     f.TrashedAt,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
