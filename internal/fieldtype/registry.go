// Package fieldtype implements the field-type dispatch core: a closed
// registry mapping each field type to its configuration shape, its value
// validator and its cell renderer. All three facets are registered in a
// single call, so a partially registered type cannot exist.
package fieldtype

import (
	"errors"
	"fmt"
	"sort"
)

// Type identifies a field type. The set is closed: register is unexported
// and only NewRegistry populates it.
type Type string

const (
	ShortText    Type = "shortText"
	LongText     Type = "longText"
	Date         Type = "date"
	Selection    Type = "selection"
	Relationship Type = "relationship"
)

// Placeholder is rendered for absent or empty values.
const Placeholder = "-"

// ErrUnknownType marks a lookup of a type that was never registered. It is an
// internal invariant violation (corrupt data or missing migration), not a
// user-facing validation error, and must not be swallowed into a placeholder.
var ErrUnknownType = errors.New("fieldtype: unknown type")

// FieldError reports one malformed or missing entry, keyed by the
// configuration key or row field slug it concerns.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ConfigValidator checks a raw configuration against the type's shape and
// returns the coerced configuration or the per-key errors. Pure.
type ConfigValidator func(raw map[string]any) (map[string]any, []FieldError)

// ValueValidator checks one row value against the field's coerced
// configuration and returns the coerced value or an error message. Pure.
type ValueValidator func(cfg map[string]any, value any) (any, string)

// Renderer produces the display representation of one stored value. Pure: no
// I/O; relationship references must be resolved by the caller beforehand.
type Renderer func(cfg map[string]any, value any) Display

type definition struct {
	config ConfigValidator
	value  ValueValidator
	render Renderer
}

// Registry is the explicit field-type registry. It is built once at process
// start and passed by reference; there is no package-level instance.
type Registry struct {
	defs map[Type]definition
}

// NewRegistry returns a registry with every supported field type installed.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[Type]definition)}
	r.register(ShortText, shortTextConfig, shortTextValue, textRender)
	r.register(LongText, longTextConfig, longTextValue, textRender)
	r.register(Date, dateConfig, dateValue, dateRender)
	r.register(Selection, selectionConfig, selectionValue, selectionRender)
	r.register(Relationship, relationshipConfig, relationshipValue, relationshipRender)
	return r
}

// register installs all three facets of a type atomically. A nil facet or a
// duplicate type is a programming error and panics at construction time.
func (r *Registry) register(t Type, cfg ConfigValidator, val ValueValidator, ren Renderer) {
	if cfg == nil || val == nil || ren == nil {
		panic(fmt.Sprintf("fieldtype: incomplete registration for %q", t))
	}
	if _, dup := r.defs[t]; dup {
		panic(fmt.Sprintf("fieldtype: duplicate registration for %q", t))
	}
	r.defs[t] = definition{config: cfg, value: val, render: ren}
}

func (r *Registry) lookup(t Type) (definition, error) {
	d, ok := r.defs[t]
	if !ok {
		return definition{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return d, nil
}

// Has reports whether t names a supported field type. Handlers use it to turn
// a bad type in user input into a validation error instead of ErrUnknownType.
func (r *Registry) Has(t Type) bool {
	_, ok := r.defs[t]
	return ok
}

// Types lists the supported type identifiers in stable order.
func (r *Registry) Types() []Type {
	ts := make([]Type, 0, len(r.defs))
	for t := range r.defs {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
	return ts
}
