package runtime

import (
	"context"
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// Connection is the transport the wrapper runs statements on. The
// connection owns the transaction; the wrapper never opens or closes it.
type Connection interface {
	// Exec runs raw SQL text. Statements that return rows fill
	// Result.Rows, the others Result.RowsAffected.
	Exec(ctx context.Context, sql string) (model.Result, error)

	// Prepare compiles SQL text into a reusable statement.
	Prepare(ctx context.Context, sql string) (Statement, error)

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	Rollback(ctx context.Context) error
}

// Statement is a prepared statement.
type Statement interface {
	// Exec runs the statement with one row of parameters.
	Exec(ctx context.Context, args ...any) (model.Result, error)

	// Close releases the statement.
	Close() error
}

// Executor runs raw SQL.
type Executor interface {
	Execute(ctx context.Context, sql string, params ...any) (model.Result, error)
}

// DB is the method set shared by the SQL-backed Wrapper and the
// in-memory engine, so either can back the same code.
type DB interface {
	Executor

	Select(ctx context.Context, table string, opts model.SelectOptions) ([]*model.Row, error)
	Insert(ctx context.Context, table string, rows []*model.Row, uniqueProps ...string) ([]*model.Row, error)
	Update(ctx context.Context, table string, where model.Where, data *model.Row) (int64, error)
	Delete(ctx context.Context, table string, where model.Where) (int64, error)
	ExecuteBatch(ctx context.Context, sql string, batch [][]any) ([]model.Result, error)
	Procedure(ctx context.Context, name string, params ...any) (model.Result, error)
	Commit(ctx context.Context, force bool) error
	Rollback(ctx context.Context, force bool) error
	Timestamp() string
}

// Change is a pending modification of a table.
type Change struct {
	Op    Operation
	Table string
}

// String renders the change as "INSERT-table".
func (c Change) String() string {
	return strings.ToUpper(string(c.Op)) + "-" + c.Table
}
