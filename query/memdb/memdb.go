// Package memdb is an in-memory relational engine that executes query
// specifications directly, with the same results a database would give
// for the compiled SQL. It is meant as a drop-in test double for the
// SQL-backed wrapper.
//
// An Engine is not safe for concurrent use.
package memdb

import (
	"context"
	"errors"
	"time"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// BaseID is the first synthetic primary key an engine hands out.
const BaseID int64 = 10000000

// IDColumn is the column that receives the synthetic primary key.
const IDColumn = "ID"

var (
	// ErrExecuteUnsupported is returned by Execute.
	ErrExecuteUnsupported = errors.New("Direct SQL execution is not supported in Test, since this is a stub")
	// ErrProcedureUnsupported is returned by Procedure.
	ErrProcedureUnsupported = errors.New("DB Procedure execution is not supported in Test, since this is a stub")
)

// Engine holds a set of named tables. Each table is an insertion-ordered
// list of rows owned by the engine.
type Engine struct {
	id        int64
	tables    map[string][]*model.Row
	now       func() time.Time
	timestamp string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock Timestamp reads.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:     BaseID,
		tables: make(map[string][]*model.Row),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset drops every table and restarts the ID sequence.
func (e *Engine) Reset() {
	e.id = BaseID
	e.tables = make(map[string][]*model.Row)
	e.timestamp = ""
}

// Table returns a copy of the rows of a table, creating the table when
// it does not exist yet.
func (e *Engine) Table(name string) []*model.Row {
	rows := e.table(name)
	out := make([]*model.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func (e *Engine) table(name string) []*model.Row {
	rows, ok := e.tables[name]
	if !ok {
		rows = []*model.Row{}
		e.tables[name] = rows
	}
	return rows
}

// Insert appends copies of rows to table, each with a fresh ID, and
// returns them in argument order. Absent columns are not stored. Unique
// properties are accepted for parity with the SQL wrapper and ignored.
func (e *Engine) Insert(_ context.Context, table string, rows []*model.Row, _ ...string) ([]*model.Row, error) {
	stored := e.table(table)
	out := make([]*model.Row, 0, len(rows))
	for _, r := range rows {
		row := &model.Row{}
		r.Each(func(name string, v model.Value) {
			if !v.IsAbsent() {
				row.Set(name, v)
			}
		})
		row.Set(IDColumn, model.Int(e.id))
		e.id++
		stored = append(stored, row)
		out = append(out, row.Clone())
	}
	e.tables[table] = stored
	return out, nil
}

// Select runs the select pipeline: joins, filter, stable sort,
// projection and limit, in that order.
func (e *Engine) Select(_ context.Context, table string, opts model.SelectOptions) ([]*model.Row, error) {
	if err := opts.Where.Validate(); err != nil {
		return nil, err
	}
	if err := checkAliases(opts.Columns); err != nil {
		return nil, err
	}

	selected := e.materialize(table)
	for _, j := range opts.Join {
		joined, err := joinTable(selected, j, e.table(j.Table))
		if err != nil {
			return nil, err
		}
		selected = joined
	}

	filtered := selected[:0]
	for _, jr := range selected {
		if matchAll(opts.Where, jr.lookup) {
			filtered = append(filtered, jr)
		}
	}
	selected = filtered

	if len(opts.OrderBy) > 0 {
		sortJoined(selected, opts.OrderBy)
	}

	if opts.Limit > 0 && len(selected) > opts.Limit {
		selected = selected[:opts.Limit]
	}

	out := make([]*model.Row, len(selected))
	for i, jr := range selected {
		out[i] = jr.project(opts.Columns)
	}
	return out, nil
}

// Update sets every non-absent column of data on the rows matching where
// and returns how many rows matched. Explicit nulls are applied.
func (e *Engine) Update(_ context.Context, table string, where model.Where, data *model.Row) (int64, error) {
	if err := requireWhere(where); err != nil {
		return 0, err
	}

	var touched int64
	for _, row := range e.table(table) {
		if !matchAll(where, flatLookup(row)) {
			continue
		}
		touched++
		data.Each(func(name string, v model.Value) {
			if !v.IsAbsent() {
				row.Set(name, v)
			}
		})
	}
	return touched, nil
}

// Delete removes the rows matching where and returns how many were removed.
func (e *Engine) Delete(_ context.Context, table string, where model.Where) (int64, error) {
	if err := requireWhere(where); err != nil {
		return 0, err
	}

	rows := e.table(table)
	kept := make([]*model.Row, 0, len(rows))
	for _, row := range rows {
		if !matchAll(where, flatLookup(row)) {
			kept = append(kept, row)
		}
	}
	e.tables[table] = kept
	return int64(len(rows) - len(kept)), nil
}

// Execute always fails: the engine cannot run raw SQL.
func (e *Engine) Execute(_ context.Context, _ string, _ ...any) (model.Result, error) {
	return model.Result{}, ErrExecuteUnsupported
}

// ExecuteBatch always fails: the engine cannot run raw SQL.
func (e *Engine) ExecuteBatch(_ context.Context, _ string, _ [][]any) ([]model.Result, error) {
	return nil, ErrExecuteUnsupported
}

// Procedure always fails: the engine has no stored procedures.
func (e *Engine) Procedure(_ context.Context, _ string, _ ...any) (model.Result, error) {
	return model.Result{}, ErrProcedureUnsupported
}

// Commit ends the current transaction. Changes are applied immediately,
// so only the timestamp is reset.
func (e *Engine) Commit(_ context.Context, _ bool) error {
	e.timestamp = ""
	return nil
}

// Rollback ends the current transaction. Changes are not undone; only
// the timestamp is reset.
func (e *Engine) Rollback(_ context.Context, _ bool) error {
	e.timestamp = ""
	return nil
}

// Timestamp returns the timestamp of the current transaction. It is
// fixed on first use and cleared by Commit and Rollback.
func (e *Engine) Timestamp() string {
	if e.timestamp == "" {
		e.timestamp = model.Timestamp(e.now())
	}
	return e.timestamp
}

func requireWhere(where model.Where) error {
	if err := where.Validate(); err != nil {
		return err
	}
	if !where.Effective() {
		return model.Errorf(model.ErrMissingWhere, "Need a valid where clause!")
	}
	return nil
}

func checkAliases(columns []model.Column) error {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		key := c.Key()
		if _, ok := seen[key]; ok {
			return model.Errorf(model.ErrDuplicateAlias, "Duplicate alias '%s' in query!", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
