package database

import (
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/satishbabariya/hdbwrap/runtime"
)

func init() {
	register(dialect{
		name:        MySQL,
		driver:      "mysql",
		placeholder: sqlgen.Question,
		dsn:         mysqlDSN,
		primaryKey:  MySQLPrimaryKeySQL,
	})
}

// mysqlDSN turns the session into ANSI_QUOTES mode so that double quoted
// identifiers work.
func mysqlDSN(url string) (string, error) {
	cfg, err := mysql.ParseDSN(strings.TrimPrefix(url, "mysql://"))
	if err != nil {
		return "", err
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["sql_mode"] = "'ANSI_QUOTES'"
	return cfg.FormatDSN(), nil
}

// MySQLPrimaryKeySQL renders the lookup of the primary key column of a
// MySQL table in the current schema.
func MySQLPrimaryKeySQL(table string) string {
	return `SELECT COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE ` +
		`WHERE TABLE_SCHEMA = DATABASE() AND CONSTRAINT_NAME = 'PRIMARY' AND TABLE_NAME = '` +
		runtime.EscapeSingleQuotes(table) + `'`
}
