package memdb

import (
	"slices"

	"github.com/satishbabariya/hdbwrap/query/model"
)

// component is one table's contribution to a joined row.
type component struct {
	table string
	row   *model.Row
}

// joinedRow is an in-progress result: one component per table joined so
// far, in join order.
type joinedRow []component

func (e *Engine) materialize(table string) []joinedRow {
	rows := e.table(table)
	out := make([]joinedRow, len(rows))
	for i, r := range rows {
		out[i] = joinedRow{{table: table, row: r.Clone()}}
	}
	return out
}

// column returns the value of c. A table-qualified column is read from
// the component of that table; a bare one from the first component that
// has it. Missing columns read as null.
func (jr joinedRow) column(c model.Column) model.Value {
	c = c.Resolve()
	for _, comp := range jr {
		if c.Table != "" {
			if comp.table != c.Table {
				continue
			}
			return orNull(comp.row.Value(c.Name))
		}
		if comp.row.Has(c.Name) {
			return orNull(comp.row.Value(c.Name))
		}
	}
	return model.Null()
}

func (jr joinedRow) lookup(c model.Condition) model.Value {
	return jr.column(c.Target())
}

func (jr joinedRow) extend(table string, row *model.Row) joinedRow {
	out := make(joinedRow, len(jr), len(jr)+1)
	copy(out, jr)
	return append(out, component{table: table, row: row.Clone()})
}

// project flattens the row. Without columns every component is merged in
// join order; later tables win on collisions.
func (jr joinedRow) project(columns []model.Column) *model.Row {
	out := &model.Row{}
	if len(columns) == 0 {
		for _, comp := range jr {
			out.Merge(comp.row)
		}
		return out
	}
	for _, c := range columns {
		out.Set(c.Key(), jr.column(c))
	}
	return out
}

// flatLookup reads conditions straight off a stored row by their key.
func flatLookup(row *model.Row) func(model.Condition) model.Value {
	return func(c model.Condition) model.Value {
		return orNull(row.Value(c.Column))
	}
}

func orNull(v model.Value) model.Value {
	if v.IsAbsent() {
		return model.Null()
	}
	return v
}

func joinTable(rows []joinedRow, j model.Join, table []*model.Row) ([]joinedRow, error) {
	typ := j.Type.OrDefault()
	switch typ {
	case model.InnerJoin, model.LeftJoin, model.RightJoin:
	default:
		return nil, model.Errorf(model.ErrUnsupportedJoin, "Unsupported join type '%s'", j.Type)
	}

	joins := func(jr joinedRow, candidate *model.Row) bool {
		for _, on := range j.OnEquals {
			if !model.LooseEqual(candidate.Value(on.Column), jr.column(on.Other)) {
				return false
			}
		}
		return true
	}

	var out []joinedRow
	matched := make([]bool, len(table))
	for _, jr := range rows {
		found := false
		for i, candidate := range table {
			if !joins(jr, candidate) {
				continue
			}
			found = true
			matched[i] = true
			out = append(out, jr.extend(j.Table, candidate))
		}
		if !found && typ == model.LeftJoin {
			out = append(out, jr)
		}
	}

	if typ == model.RightJoin {
		for i, candidate := range table {
			if !matched[i] {
				out = append(out, joinedRow{{table: j.Table, row: candidate.Clone()}})
			}
		}
	}
	return out, nil
}

// matchAll reports whether every active condition of where holds for the
// values get reads.
func matchAll(where model.Where, get func(model.Condition) model.Value) bool {
	for _, c := range where.Active() {
		if !match(c, get(c)) {
			return false
		}
	}
	return true
}

func match(c model.Condition, actual model.Value) bool {
	switch f := c.Filter.(type) {
	case model.Is:
		return model.LooseEqual(actual, f.Value)
	case model.Compare:
		return model.Satisfies(actual, f.Comparator, f.Value)
	case model.AnyOf:
		return model.Contains(f, actual)
	case model.Membership:
		has := model.Contains(f.Values, actual)
		if f.Presence.OrDefault() == model.NotIn {
			return !has
		}
		return has
	}
	return false
}

func sortJoined(rows []joinedRow, orderBy []model.OrderBy) {
	slices.SortStableFunc(rows, func(a, b joinedRow) int {
		for _, o := range orderBy {
			c := model.CompareOrder(a.column(o.Column), b.column(o.Column))
			if o.Direction == model.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
