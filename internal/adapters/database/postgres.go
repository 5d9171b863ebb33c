package database

import (
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/satishbabariya/hdbwrap/runtime"
)

func init() {
	register(dialect{
		name:        PostgreSQL,
		driver:      "postgres",
		placeholder: sqlgen.Dollar,
		primaryKey:  PostgresPrimaryKeySQL,
	})
}

// PostgresPrimaryKeySQL renders the lookup of the primary key column of a
// PostgreSQL table.
func PostgresPrimaryKeySQL(table string) string {
	return `SELECT kcu.column_name FROM information_schema.table_constraints tc ` +
		`JOIN information_schema.key_column_usage kcu ` +
		`ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema ` +
		`WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = '` + runtime.EscapeSingleQuotes(table) + `'`
}
