// Package slugutil derives URL-safe slugs for tables and fields.
package slugutil

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

var invalid = regexp.MustCompile(`[^a-z0-9-]+`)

// Make converts an arbitrary display name into a kebab-case slug.
func Make(name string) string {
	s := strcase.ToKebab(strings.TrimSpace(name))
	s = invalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// MakePlural derives a pluralized slug, used as the default for new tables
// ("Project" -> "projects").
func MakePlural(name string) string {
	return Make(inflection.Plural(strings.TrimSpace(name)))
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return s != "" && s == Make(s)
}
