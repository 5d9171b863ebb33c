package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/satishbabariya/hdbwrap/runtime"
)

func init() {
	register(dialect{
		name:        SQLite,
		driver:      "sqlite3",
		placeholder: sqlgen.Question,
		// A single connection keeps an in-memory database alive and
		// serializes writes.
		pool: func(db *sql.DB, _ Config) {
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
		},
		setup:      sqliteSetup,
		primaryKey: SQLitePrimaryKeySQL,
	})
}

func sqliteSetup(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// SQLitePrimaryKeySQL renders the lookup of the primary key column of a
// SQLite table.
func SQLitePrimaryKeySQL(table string) string {
	return `SELECT "name" FROM pragma_table_info('` + runtime.EscapeSingleQuotes(table) + `') WHERE "pk" = 1`
}
