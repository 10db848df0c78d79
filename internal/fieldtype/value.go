package fieldtype

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// ISO storage layout for date values.
const dateStorageLayout = "2006-01-02"

// ValidateRow checks a proposed row payload against the table's current field
// set. Every field present in the payload is dispatched to its type's
// validator with the field's configuration; errors are accumulated across all
// fields in one pass. Slugs not present in the field set are rejected, never
// silently dropped. Absent fields stay absent. The returned error is non-nil
// only when a stored field carries an unregistered type, which is an internal
// invariant violation.
func (r *Registry) ValidateRow(fields []domain.Field, payload map[string]any) (map[string]any, []FieldError, error) {
	bySlug := make(map[string]domain.Field, len(fields))
	for _, f := range fields {
		bySlug[f.Slug] = f
	}
	out := make(map[string]any, len(payload))
	var errs []FieldError
	for slug, value := range payload {
		f, ok := bySlug[slug]
		if !ok {
			errs = append(errs, FieldError{Field: slug, Message: "unknown field"})
			continue
		}
		d, err := r.lookup(Type(f.Type))
		if err != nil {
			return nil, nil, err
		}
		if isAbsent(value) {
			// explicit null clears the value
			out[slug] = nil
			continue
		}
		coerced, msg := d.value(f.Configuration, value)
		if msg != "" {
			errs = append(errs, FieldError{Field: slug, Message: msg})
			continue
		}
		out[slug] = coerced
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	return out, nil, nil
}

func isAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	default:
		return false
	}
}

func shortTextValue(cfg map[string]any, value any) (any, string) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Sprintf("must be a string, got %s", describeKind(value))
	}
	if max, ok := asInt(cfg["maxLength"]); ok && len([]rune(s)) > max {
		return nil, fmt.Sprintf("must be at most %d characters", max)
	}
	return s, ""
}

func longTextValue(_ map[string]any, value any) (any, string) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Sprintf("must be a string, got %s", describeKind(value))
	}
	return s, ""
}

func dateValue(_ map[string]any, value any) (any, string) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Sprintf("must be a date string, got %s", describeKind(value))
	}
	if _, err := time.Parse(dateStorageLayout, s); err == nil {
		return s, ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateStorageLayout), ""
	}
	return nil, "must be a yyyy-MM-dd or RFC 3339 date"
}

func selectionValue(cfg map[string]any, value any) (any, string) {
	opts := cfgStrings(cfg, "options")
	if cfgBool(cfg, "multiple") {
		vals, ok := asStringSlice(value)
		if !ok {
			return nil, "must be a list of options"
		}
		for _, v := range vals {
			if !contains(opts, v) {
				return nil, fmt.Sprintf("%q is not one of the configured options", v)
			}
		}
		return vals, ""
	}
	s, ok := value.(string)
	if !ok {
		return nil, "must be one of the configured options"
	}
	if !contains(opts, s) {
		return nil, fmt.Sprintf("%q is not one of the configured options", s)
	}
	return s, ""
}

func relationshipValue(cfg map[string]any, value any) (any, string) {
	if cfgBool(cfg, "multiple") {
		ids, ok := asStringSlice(value)
		if !ok {
			return nil, "must be a list of row ids"
		}
		for _, id := range ids {
			if _, err := primitive.ObjectIDFromHex(id); err != nil {
				return nil, fmt.Sprintf("%q is not a valid row id", id)
			}
		}
		return ids, ""
	}
	id, ok := value.(string)
	if !ok {
		return nil, "must be a row id"
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Sprintf("%q is not a valid row id", id)
	}
	return id, ""
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
