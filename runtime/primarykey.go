package runtime

import (
	"context"
	"fmt"
	"strings"
)

// PrimaryKeyFinder discovers the primary key column of a table.
type PrimaryKeyFinder interface {
	PrimaryKey(ctx context.Context, exec Executor, table string) (string, error)
}

// PrimaryKeyFunc adapts a function to PrimaryKeyFinder.
type PrimaryKeyFunc func(ctx context.Context, exec Executor, table string) (string, error)

// PrimaryKey calls f.
func (f PrimaryKeyFunc) PrimaryKey(ctx context.Context, exec Executor, table string) (string, error) {
	return f(ctx, exec, table)
}

// PrimaryKeyQuery returns a finder that runs the SQL render produces for
// a table and reads the first column of the first row.
func PrimaryKeyQuery(render func(table string) string) PrimaryKeyFunc {
	return func(ctx context.Context, exec Executor, table string) (string, error) {
		res, err := exec.Execute(ctx, render(table))
		if err != nil {
			return "", err
		}
		if len(res.Rows) == 0 || res.Rows[0].Len() == 0 {
			return "", fmt.Errorf("%w for table '%s'", ErrNoPrimaryKey, table)
		}
		row := res.Rows[0]
		v := row.Value(row.Keys()[0])
		if v.IsNullish() {
			return "", fmt.Errorf("%w for table '%s'", ErrNoPrimaryKey, table)
		}
		return v.String(), nil
	}
}

// HANAPrimaryKeySQL renders the lookup of the single non-nullable, fully
// indexed column of a table in the HANA system catalog.
func HANAPrimaryKeySQL(table string) string {
	return `SELECT "COLUMN_NAME" FROM "SYS"."TABLE_COLUMNS" WHERE "TABLE_NAME" = '` + EscapeSingleQuotes(table) +
		`' AND "IS_NULLABLE" = 'FALSE' AND "INDEX_TYPE" = 'FULL'`
}

// HANAPrimaryKey is the default finder.
var HANAPrimaryKey = PrimaryKeyQuery(HANAPrimaryKeySQL)

// EscapeSingleQuotes doubles every single quote of value.
func EscapeSingleQuotes(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
