package model

// JoinType is the kind of join.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
)

// OrDefault returns InnerJoin for the empty join type.
func (t JoinType) OrDefault() JoinType {
	if t == "" {
		return InnerJoin
	}
	return t
}

// OnEqual requires Column on the joined table to equal Other.
type OnEqual struct {
	Column string
	Other  Column
}

// On builds an OnEqual. other is either a string or a Column.
func On(column string, other any) OnEqual {
	switch o := other.(type) {
	case Column:
		return OnEqual{Column: column, Other: o}
	case string:
		return OnEqual{Column: column, Other: Col(o)}
	default:
		panic("model.On: other must be a string or a Column")
	}
}

// Join adds Table to the row set. Every OnEquals entry must hold.
type Join struct {
	Table    string
	Type     JoinType
	OnEquals []OnEqual
}

// Direction is a sort direction. The empty direction sorts ascending and
// renders without a keyword.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// OrderBy sorts by a column.
type OrderBy struct {
	Column    Column
	Direction Direction
}

// Sort orders by a bare column name without an explicit direction.
func Sort(column string) OrderBy { return OrderBy{Column: Col(column)} }

// Ascending orders by a bare column name, ascending.
func Ascending(column string) OrderBy { return OrderBy{Column: Col(column), Direction: Asc} }

// Descending orders by a bare column name, descending.
func Descending(column string) OrderBy { return OrderBy{Column: Col(column), Direction: Desc} }

// SelectOptions describes a SELECT. Nil Columns selects every column.
type SelectOptions struct {
	Columns []Column
	Where   Where
	Join    []Join
	OrderBy []OrderBy
	Limit   int
}

// Columns builds a column list from strings and Columns.
func Columns(cols ...any) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		switch x := c.(type) {
		case Column:
			out = append(out, x)
		case string:
			out = append(out, Col(x))
		default:
			panic("model.Columns: expected a string or a Column")
		}
	}
	return out
}
