// Package sqlgen compiles query specifications into parameterized SQL.
//
// Every function is pure: the same specification always renders the same
// text and the parameters in the same order. Placeholders are "?"; use
// Rebind for drivers that number them.
package sqlgen

import (
	"errors"
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// ErrEmptyInsert is returned when an insert carries no rows or no columns.
var ErrEmptyInsert = errors.New("empty insert")

// Query is a compiled statement.
type Query struct {
	SQL  string
	Args []any
	// Batch holds one parameter row per inserted row. Only Insert sets it.
	Batch [][]any
}

// Empty reports whether the query has no text, which Update returns when
// there is nothing to set.
func (q Query) Empty() bool {
	return q.SQL == ""
}

// Select compiles a SELECT with its joins, filters, ordering and limit.
func Select(table string, opts model.SelectOptions) (Query, error) {
	joins, err := Joins(opts.Join)
	if err != nil {
		return Query{}, err
	}
	where, args, err := Where(opts.Where)
	if err != nil {
		return Query{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(SelectColumns(opts.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(Quote(table))
	sb.WriteString(joins)
	sb.WriteString(where)
	sb.WriteString(OrderBy(opts.OrderBy))
	sb.WriteString(Limit(opts.Limit))

	return Query{SQL: sb.String(), Args: args}, nil
}

// Insert compiles a batch insert. The column list is the union of the
// rows' keys in first-seen order and every row is projected onto it;
// keys a row lacks are bound as NULL.
func Insert(table string, rows []*model.Row) (Query, error) {
	if len(rows) == 0 {
		return Query{}, model.Errorf(ErrEmptyInsert, "Cannot INSERT into '%s' without rows", table)
	}

	var columns []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, key := range row.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	if len(columns) == 0 {
		return Query{}, model.Errorf(ErrEmptyInsert, "Cannot INSERT into '%s' without columns", table)
	}

	batch := make([][]any, len(rows))
	for i, row := range rows {
		params := make([]any, len(columns))
		for j, col := range columns {
			params[j] = row.Value(col).Interface()
		}
		batch[i] = params
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = Quote(col)
	}

	sql := "INSERT INTO " + Quote(table) + " (" + strings.Join(quoted, ",") + ") VALUES (" + Placeholders(len(columns)) + ")"
	return Query{SQL: sql, Args: batch[0], Batch: batch}, nil
}

// Update compiles an UPDATE. Absent data entries are dropped; when nothing
// is left to set the zero Query is returned, before the filter is looked
// at. SET parameters precede the WHERE parameters.
func Update(table string, where model.Where, data *model.Row) (Query, error) {
	var (
		sets []string
		args []any
	)
	data.Each(func(key string, v model.Value) {
		if v.IsAbsent() {
			return
		}
		sets = append(sets, Quote(key)+" = ?")
		args = append(args, v.Interface())
	})
	if len(sets) == 0 {
		return Query{}, nil
	}

	whereSQL, whereArgs, err := Where(where)
	if err != nil {
		return Query{}, err
	}
	if whereSQL == "" {
		return Query{}, model.Errorf(model.ErrMissingWhere, "Cannot UPDATE on '%s' without a valid where clause", table)
	}

	sql := "UPDATE " + Quote(table) + " SET " + strings.Join(sets, ",") + whereSQL
	return Query{SQL: sql, Args: append(args, whereArgs...)}, nil
}

// Delete compiles a DELETE. A filter that renders no WHERE clause is an
// error.
func Delete(table string, where model.Where) (Query, error) {
	whereSQL, args, err := Where(where)
	if err != nil {
		return Query{}, err
	}
	if whereSQL == "" {
		return Query{}, model.Errorf(model.ErrMissingWhere, "Cannot DELETE on '%s' without a valid where clause", table)
	}
	return Query{SQL: "DELETE FROM " + Quote(table) + whereSQL, Args: args}, nil
}

// Call compiles a stored procedure invocation with n parameters:
// CALL "name"(?,?).
func Call(name string, n int) Query {
	return Query{SQL: "CALL " + Quote(name) + "(" + Placeholders(n) + ")"}
}
