package runtime

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/satishbabariya/hdbwrap/internal/debug"
	"github.com/satishbabariya/hdbwrap/query/cache"
	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
)

// Recorder receives one record per table operation.
type Recorder interface {
	RecordOperation(ctx context.Context, table, operation string, duration time.Duration, rows int64, err error)
}

// Wrapper executes compiled query specifications on a Connection and
// keeps track of the changes made since the last commit or rollback.
//
// A Wrapper is bound to one connection and is not safe for concurrent
// use, except for its primary key cache.
type Wrapper struct {
	conn        Connection
	finder      PrimaryKeyFinder
	primaryKeys *cache.Lazy[string]
	pending     []Change
	timestamp   string
	now         func() time.Time
	logger      *slog.Logger
	recorder    Recorder
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithPrimaryKeyFinder replaces the HANA catalog lookup used by inserts
// that fetch the inserted rows back.
func WithPrimaryKeyFinder(f PrimaryKeyFinder) Option {
	return func(w *Wrapper) {
		w.finder = f
	}
}

// WithLogger sets the logger statements are logged to.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wrapper) {
		w.logger = l
	}
}

// WithRecorder sets where operation metrics go.
func WithRecorder(r Recorder) Option {
	return func(w *Wrapper) {
		w.recorder = r
	}
}

// WithClock sets the clock Timestamp reads.
func WithClock(now func() time.Time) Option {
	return func(w *Wrapper) {
		w.now = now
	}
}

// New wraps conn.
func New(conn Connection, opts ...Option) *Wrapper {
	w := &Wrapper{
		conn:   conn,
		finder: HANAPrimaryKey,
		now:    time.Now,
		logger: debug.Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.primaryKeys = cache.NewLazy(func(ctx context.Context, table string) (string, error) {
		return w.finder.PrimaryKey(ctx, w, table)
	})
	return w
}

// Timestamp returns the ISO-8601 UTC timestamp of the current
// transaction. It is fixed on first use and cleared by Commit and Rollback.
func (w *Wrapper) Timestamp() string {
	if w.timestamp == "" {
		w.timestamp = model.Timestamp(w.now())
	}
	return w.timestamp
}

// PendingChanges returns the changes made since the last successful
// commit or rollback.
func (w *Wrapper) PendingChanges() []Change {
	return slices.Clone(w.pending)
}

// Commit commits the transaction. Without pending changes it does nothing
// unless force is set, which is needed after direct use of Execute.
func (w *Wrapper) Commit(ctx context.Context, force bool) error {
	return w.finish(ctx, force, false)
}

// Rollback rolls the transaction back. Without pending changes it does
// nothing unless force is set.
func (w *Wrapper) Rollback(ctx context.Context, force bool) error {
	return w.finish(ctx, force, true)
}

func (w *Wrapper) finish(ctx context.Context, force, rollback bool) error {
	w.timestamp = ""
	if !force && len(w.pending) == 0 {
		return nil
	}

	var err error
	if rollback {
		err = w.conn.Rollback(ctx)
	} else {
		err = w.conn.Commit(ctx)
	}
	if err != nil {
		return &TransactionError{Rollback: rollback, Cause: err, Pending: w.PendingChanges()}
	}

	w.logger.Debug("transaction finished", "rollback", rollback, "changes", len(w.pending))
	w.pending = nil
	return nil
}

// Select runs a compiled SELECT. It never returns a nil slice on success.
func (w *Wrapper) Select(ctx context.Context, table string, opts model.SelectOptions) (rows []*model.Row, err error) {
	q, err := sqlgen.Select(table, opts)
	if err != nil {
		return nil, err
	}

	defer w.record(ctx, table, OpSelect, time.Now(), func() int64 { return int64(len(rows)) }, &err)

	res, err := w.Execute(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, &OperationError{Op: OpSelect, Table: table, Cause: err}
	}
	if res.Rows == nil {
		return []*model.Row{}, nil
	}
	return res.Rows, nil
}

// Insert inserts rows as one batch. With uniqueProps the inserted rows
// are selected back by those columns, newest first by primary key, and
// returned in insertion order; otherwise the result is empty.
func (w *Wrapper) Insert(ctx context.Context, table string, rows []*model.Row, uniqueProps ...string) ([]*model.Row, error) {
	if len(rows) == 0 {
		return []*model.Row{}, nil
	}

	q, err := sqlgen.Insert(table, rows)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = w.ExecuteBatch(ctx, q.SQL, q.Batch)
	if err != nil {
		err = &OperationError{Op: OpInsert, Table: table, Cause: err}
	}
	w.record(ctx, table, OpInsert, start, func() int64 { return int64(len(rows)) }, &err)
	if err != nil {
		return nil, err
	}
	w.pending = append(w.pending, Change{Op: OpInsert, Table: table})

	if len(uniqueProps) == 0 {
		return []*model.Row{}, nil
	}

	pk, err := w.primaryKeys.Get(ctx, table)
	if err != nil {
		return nil, err
	}

	where := make(model.Where, 0, len(uniqueProps))
	for _, prop := range uniqueProps {
		var values model.AnyOf
		for _, row := range rows {
			if v := row.Value(prop); !v.IsAbsent() {
				values = append(values, v)
			}
		}
		where = append(where, model.Condition{Column: prop, Filter: values})
	}

	out, err := w.Select(ctx, table, model.SelectOptions{
		Where:   where,
		OrderBy: []model.OrderBy{model.Descending(pk)},
		Limit:   len(rows),
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// Update runs a compiled UPDATE and returns the number of affected rows.
// Data without any non-absent column executes nothing.
func (w *Wrapper) Update(ctx context.Context, table string, where model.Where, data *model.Row) (affected int64, err error) {
	q, err := sqlgen.Update(table, where, data)
	if err != nil {
		return 0, err
	}
	if q.Empty() {
		return 0, nil
	}

	defer w.record(ctx, table, OpUpdate, time.Now(), func() int64 { return affected }, &err)

	res, err := w.Execute(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, &OperationError{Op: OpUpdate, Table: table, Cause: err}
	}
	w.pending = append(w.pending, Change{Op: OpUpdate, Table: table})
	return res.RowsAffected, nil
}

// Delete runs a compiled DELETE and returns the number of deleted rows.
func (w *Wrapper) Delete(ctx context.Context, table string, where model.Where) (affected int64, err error) {
	q, err := sqlgen.Delete(table, where)
	if err != nil {
		return 0, err
	}

	defer w.record(ctx, table, OpDelete, time.Now(), func() int64 { return affected }, &err)

	res, err := w.Execute(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, &OperationError{Op: OpDelete, Table: table, Cause: err}
	}
	w.pending = append(w.pending, Change{Op: OpDelete, Table: table})
	return res.RowsAffected, nil
}

// Procedure calls a stored procedure with params.
func (w *Wrapper) Procedure(ctx context.Context, name string, params ...any) (model.Result, error) {
	return w.Execute(ctx, sqlgen.Call(name, len(params)).SQL, params...)
}

// Execute runs raw SQL. With params the statement is prepared, executed
// once and closed; without, the text is executed directly. Changes made
// this way are not tracked, so commit with force afterwards.
func (w *Wrapper) Execute(ctx context.Context, sql string, params ...any) (model.Result, error) {
	if len(params) == 0 {
		start := time.Now()
		res, err := w.conn.Exec(ctx, sql)
		w.logStatement(sql, 0, start, err)
		if err != nil {
			return model.Result{}, &StatementError{SQL: sql, Cause: err}
		}
		return res, nil
	}

	results, err := w.ExecuteBatch(ctx, sql, [][]any{params})
	if err != nil {
		return model.Result{}, err
	}
	return results[0], nil
}

// ExecuteBatch prepares sql once and executes it for every parameter row.
// An empty batch executes the text directly.
func (w *Wrapper) ExecuteBatch(ctx context.Context, sql string, batch [][]any) ([]model.Result, error) {
	if len(batch) == 0 {
		res, err := w.Execute(ctx, sql)
		if err != nil {
			return nil, err
		}
		return []model.Result{res}, nil
	}

	start := time.Now()
	stmt, err := w.conn.Prepare(ctx, sql)
	if err != nil {
		w.logStatement(sql, len(batch), start, err)
		return nil, &StatementError{SQL: sql, Cause: err}
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			w.logger.Debug("close statement", "sql", sql, "error", cerr)
		}
	}()

	results := make([]model.Result, 0, len(batch))
	for _, args := range batch {
		res, err := stmt.Exec(ctx, args...)
		if err != nil {
			w.logStatement(sql, len(batch), start, err)
			return nil, &StatementError{SQL: sql, Cause: err}
		}
		results = append(results, res)
	}
	w.logStatement(sql, len(batch), start, nil)
	return results, nil
}

func (w *Wrapper) logStatement(sql string, rows int, start time.Time, err error) {
	if err != nil {
		w.logger.Debug("statement failed", "sql", sql, "batch", rows, "duration", time.Since(start), "error", err)
		return
	}
	w.logger.Debug("statement executed", "sql", sql, "batch", rows, "duration", time.Since(start))
}

func (w *Wrapper) record(ctx context.Context, table string, op Operation, start time.Time, rows func() int64, err *error) {
	if w.recorder == nil {
		return
	}
	w.recorder.RecordOperation(ctx, table, string(op), time.Since(start), rows(), *err)
}
