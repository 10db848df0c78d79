package fieldtype

import (
	"fmt"
	"math"
)

// ValidateConfig narrows raw to the shape registered for t. Validation is
// structural only: presence and kind, never semantics (a date format string
// is checked to be a string, not to be a sensible pattern). Idempotent: a
// coerced configuration validates to an equal result.
func (r *Registry) ValidateConfig(t Type, raw map[string]any) (map[string]any, []FieldError, error) {
	d, err := r.lookup(t)
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	cfg, errs := d.config(raw)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	return cfg, nil, nil
}

func shortTextConfig(raw map[string]any) (map[string]any, []FieldError) {
	cfg := map[string]any{}
	var errs []FieldError
	if v, ok := raw["maxLength"]; ok {
		n, ok := asInt(v)
		if !ok || n < 1 {
			errs = append(errs, FieldError{Field: "maxLength", Message: "must be a positive integer"})
		} else {
			cfg["maxLength"] = n
		}
	}
	return cfg, errs
}

func longTextConfig(raw map[string]any) (map[string]any, []FieldError) {
	return map[string]any{}, nil
}

func dateConfig(raw map[string]any) (map[string]any, []FieldError) {
	cfg := map[string]any{}
	var errs []FieldError
	format, ok := raw["format"].(string)
	if !ok || format == "" {
		errs = append(errs, FieldError{Field: "format", Message: "required and must be a string"})
	} else {
		cfg["format"] = format
	}
	return cfg, errs
}

func selectionConfig(raw map[string]any) (map[string]any, []FieldError) {
	cfg := map[string]any{}
	var errs []FieldError
	opts, ok := asStringSlice(raw["options"])
	if !ok || len(opts) == 0 {
		errs = append(errs, FieldError{Field: "options", Message: "required and must be a non-empty list of strings"})
	} else {
		cfg["options"] = opts
	}
	if v, ok := raw["multiple"]; ok {
		b, ok := v.(bool)
		if !ok {
			errs = append(errs, FieldError{Field: "multiple", Message: "must be a boolean"})
		} else {
			cfg["multiple"] = b
		}
	}
	return cfg, errs
}

func relationshipConfig(raw map[string]any) (map[string]any, []FieldError) {
	cfg := map[string]any{}
	var errs []FieldError
	for _, key := range []string{"table", "displayField"} {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			errs = append(errs, FieldError{Field: key, Message: "required and must be a string"})
		} else {
			cfg[key] = s
		}
	}
	if v, ok := raw["multiple"]; ok {
		b, ok := v.(bool)
		if !ok {
			errs = append(errs, FieldError{Field: "multiple", Message: "must be a boolean"})
		} else {
			cfg["multiple"] = b
		}
	}
	return cfg, errs
}

// asInt accepts the numeric kinds JSON and BSON decoding produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, true
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func cfgString(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}

func cfgBool(cfg map[string]any, key string) bool {
	b, _ := cfg[key].(bool)
	return b
}

func cfgStrings(cfg map[string]any, key string) []string {
	s, _ := asStringSlice(cfg[key])
	return s
}

func describeKind(v any) string {
	return fmt.Sprintf("%T", v)
}
