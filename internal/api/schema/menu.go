package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// Menu is the wire form of a navigation entry.
type Menu struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	URL       string     `json:"url"`
	Icon      string     `json:"icon,omitempty"`
	Parent    string     `json:"parent,omitempty"`
	Position  int        `json:"position"`
	Trashed   bool       `json:"trashed"`
	TrashedAt *time.Time `json:"trashedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateMenu is the POST /menu body.
type CreateMenu struct {
	Label    string `json:"label" minLength:"1"`
	URL      string `json:"url" minLength:"1"`
	Icon     string `json:"icon,omitempty"`
	Parent   string `json:"parent,omitempty"`
	Position int    `json:"position,omitempty"`
}

// PatchMenu is the PATCH body.
type PatchMenu struct {
	Label    *string `json:"label,omitempty"`
	URL      *string `json:"url,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Parent   *string `json:"parent,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// FromMenu converts a domain menu.
func FromMenu(m *domain.Menu) Menu {
	out := Menu{
		ID:        m.ID.Hex(),
		Label:     m.Label,
		URL:       m.URL,
		Icon:      m.Icon,
		Position:  m.Position,
		Trashed:   m.Trashed,
		TrashedAt: m.TrashedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Parent != nil {
		out.Parent = m.Parent.Hex()
	}
	return out
}
