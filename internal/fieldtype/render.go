package fieldtype

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// Display is the rendered representation of one cell: plain text for scalar
// types, one badge per reference for relationships.
type Display struct {
	Text   string   `json:"text,omitempty"`
	Badges []string `json:"badges,omitempty"`
}

// Ref is a pre-resolved relationship reference: the referenced row id plus
// the label taken from the related table's display field. Resolution happens
// upstream; the renderer never performs I/O.
type Ref struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Render dispatches to the renderer registered for the field's type. Absent
// and empty values always render the placeholder. An unregistered type is
// returned as an error, never hidden behind the placeholder.
func (r *Registry) Render(field domain.Field, value any) (Display, error) {
	d, err := r.lookup(Type(field.Type))
	if err != nil {
		return Display{}, err
	}
	if isAbsent(value) {
		return Display{Text: Placeholder}, nil
	}
	return d.render(field.Configuration, value), nil
}

func textRender(_ map[string]any, value any) Display {
	s, ok := value.(string)
	if !ok || s == "" {
		return Display{Text: Placeholder}
	}
	return Display{Text: s}
}

func dateRender(cfg map[string]any, value any) Display {
	s, ok := value.(string)
	if !ok {
		return Display{Text: Placeholder}
	}
	t, err := time.Parse(dateStorageLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return Display{Text: Placeholder}
		}
	}
	layout := GoLayout(cfgString(cfg, "format"))
	if layout == "" {
		return Display{Text: t.Format(dateStorageLayout)}
	}
	return Display{Text: t.Format(layout)}
}

func selectionRender(_ map[string]any, value any) Display {
	if vals, ok := asStringSlice(value); ok && len(vals) > 0 {
		return Display{Badges: vals}
	}
	if s, ok := value.(string); ok && s != "" {
		return Display{Text: s}
	}
	return Display{Text: Placeholder}
}

func relationshipRender(_ map[string]any, value any) Display {
	refs, ok := value.([]Ref)
	if !ok {
		// unresolved reference state
		return Display{Text: Placeholder}
	}
	if len(refs) == 0 {
		return Display{Text: Placeholder}
	}
	badges := make([]string, len(refs))
	for i, ref := range refs {
		if ref.Label == "" {
			badges[i] = Placeholder
			continue
		}
		badges[i] = ref.Label
	}
	return Display{Badges: badges}
}
