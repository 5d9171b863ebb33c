package sqlgen

import (
	"strconv"
	"strings"
)

// Placeholder is a driver's bind parameter style.
type Placeholder int

const (
	// Question binds with "?" (HANA, SQLite, MySQL).
	Question Placeholder = iota
	// Dollar binds with "$1", "$2", ... (PostgreSQL).
	Dollar
)

// Rebind rewrites the "?" placeholders of sql into the given style.
// Question marks inside quoted text or identifiers are left alone.
func Rebind(sql string, style Placeholder) string {
	if style == Question || !strings.Contains(sql, "?") {
		return sql
	}

	var (
		sb    strings.Builder
		n     int
		quote rune
	)
	sb.Grow(len(sql) + 8)
	for _, r := range sql {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
