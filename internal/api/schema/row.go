package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
)

// Row is the wire form of a data record: raw values plus the server-rendered
// display representation per field slug.
type Row struct {
	ID        string                       `json:"id"`
	Table     string                       `json:"table"`
	Values    map[string]any               `json:"values"`
	Display   map[string]fieldtype.Display `json:"display,omitempty"`
	Reactions int                          `json:"reactions"`
	Liked     bool                         `json:"liked"`
	Trashed   bool                         `json:"trashed"`
	TrashedAt *time.Time                   `json:"trashedAt,omitempty"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

// RowPayload is the create/update body: one candidate value per field slug.
type RowPayload struct {
	Values map[string]any `json:"values"`
}

// Reaction is the response of the reaction toggle.
type Reaction struct {
	Liked     bool `json:"liked"`
	Reactions int  `json:"reactions"`
}

// FromRow converts a domain row; display is attached by the handler after
// rendering.
func FromRow(r *domain.Row, currentUser string) Row {
	liked := false
	for _, u := range r.Reactions {
		if u.Hex() == currentUser {
			liked = true
			break
		}
	}
	return Row{
		ID:        r.ID.Hex(),
		Table:     r.Table.Hex(),
		Values:    r.Values,
		Reactions: len(r.Reactions),
		Liked:     liked,
		Trashed:   r.Trashed,
		TrashedAt: r.TrashedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
