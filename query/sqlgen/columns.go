package sqlgen

import (
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// Quote wraps an identifier in double quotes unless it is already quoted.
// Identifiers are caller trusted; nothing is escaped.
func Quote(identifier string) string {
	if len(identifier) >= 2 && strings.HasPrefix(identifier, `"`) && strings.HasSuffix(identifier, `"`) {
		return identifier
	}
	return `"` + identifier + `"`
}

// Placeholders returns n comma separated placeholders: "?,?,?".
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// Column renders a column reference: "name" or "table"."name".
func Column(c model.Column) string {
	if c.Table != "" {
		return Quote(c.Table) + "." + Quote(c.Name)
	}
	return Quote(c.Name)
}

// SelectColumns renders the projection list. No columns selects "*".
func SelectColumns(columns []model.Column) string {
	if len(columns) == 0 {
		return "*"
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		out := Column(c)
		if c.Alias != "" {
			out += " as " + Quote(c.Alias)
		}
		parts[i] = out
	}
	return strings.Join(parts, ", ")
}
