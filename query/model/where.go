package model

// Comparator is a scalar comparison operator.
type Comparator string

const (
	Equal          Comparator = "="
	NotEqual       Comparator = "!="
	NotEqualLtGt   Comparator = "<>"
	Less           Comparator = "<"
	LessOrEqual    Comparator = "<="
	Greater        Comparator = ">"
	GreaterOrEqual Comparator = ">="
)

// Valid reports whether c is a known comparator. The empty comparator means Equal.
func (c Comparator) Valid() bool {
	switch c {
	case "", Equal, NotEqual, NotEqualLtGt, Less, LessOrEqual, Greater, GreaterOrEqual:
		return true
	}
	return false
}

// OrDefault returns Equal for the empty comparator.
func (c Comparator) OrDefault() Comparator {
	if c == "" {
		return Equal
	}
	return c
}

// Presence selects between membership and non-membership.
type Presence string

const (
	In    Presence = "IN"
	NotIn Presence = "NOT IN"
)

// OrDefault returns In for the empty presence.
func (p Presence) OrDefault() Presence {
	if p == "" {
		return In
	}
	return p
}

// Filter is one of Is, Compare, AnyOf or Membership.
type Filter interface {
	filter()
}

// Is matches rows whose column equals Value.
type Is struct {
	Value Value
}

// Compare matches rows whose column compares to Value with Comparator.
// Table optionally pins the column to a joined table.
type Compare struct {
	Value      Value
	Comparator Comparator
	Table      string
}

// AnyOf matches rows whose column equals one of the values.
type AnyOf []Value

// Membership matches rows whose column is (or is not) one of Values.
type Membership struct {
	Values   []Value
	Presence Presence
	Table    string
}

func (Is) filter()         {}
func (Compare) filter()    {}
func (AnyOf) filter()      {}
func (Membership) filter() {}

// Condition applies a filter to a column. Column may be a bare name or
// use the "table"."name" form.
type Condition struct {
	Column string
	Filter Filter
}

// Resolved returns the filter with pointer variants dereferenced. A nil
// pointer resolves to a nil filter.
func (c Condition) Resolved() Filter {
	switch f := c.Filter.(type) {
	case *Is:
		if f == nil {
			return nil
		}
		return *f
	case *Compare:
		if f == nil {
			return nil
		}
		return *f
	case *AnyOf:
		if f == nil {
			return nil
		}
		return *f
	case *Membership:
		if f == nil {
			return nil
		}
		return *f
	}
	return c.Filter
}

// Skipped reports whether the condition carries no filter at all: its
// filter is nil or its scalar value is absent.
func (c Condition) Skipped() bool {
	switch f := c.Resolved().(type) {
	case nil:
		return true
	case Is:
		return f.Value.IsAbsent()
	case Compare:
		return f.Value.IsAbsent()
	}
	return false
}

// Target returns the column the condition tests, qualified by the filter's table if any.
func (c Condition) Target() Column {
	switch f := c.Resolved().(type) {
	case Compare:
		return Column{Name: c.Column, Table: f.Table}
	case Membership:
		return Column{Name: c.Column, Table: f.Table}
	}
	return Column{Name: c.Column}
}

// Where is an ordered list of conditions, ANDed together. Order is kept
// in the generated SQL and its parameters.
type Where []Condition

// Active returns the conditions that are not skipped, in order, with
// their filters resolved.
func (w Where) Active() []Condition {
	var out []Condition
	for _, c := range w {
		if c.Skipped() {
			continue
		}
		out = append(out, Condition{Column: c.Column, Filter: c.Resolved()})
	}
	return out
}

// Effective reports whether any active condition restricts rows. An
// empty NOT IN list restricts nothing.
func (w Where) Effective() bool {
	for _, c := range w.Active() {
		m, ok := c.Filter.(Membership)
		if ok && len(m.Values) == 0 && m.Presence.OrDefault() == NotIn {
			continue
		}
		return true
	}
	return false
}

// Validate checks every active condition for misuse: unknown comparators
// or presences, and NULL used with an ordering comparator.
func (w Where) Validate() error {
	for _, c := range w.Active() {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single condition. Skipped conditions are always valid.
func (c Condition) Validate() error {
	switch f := c.Resolved().(type) {
	case Is:
		return nil
	case Compare:
		if f.Value.IsAbsent() {
			return nil
		}
		if !f.Comparator.Valid() {
			return Errorf(ErrUnsupportedComparator, "Unsupported comparator '%s'", f.Comparator)
		}
		if f.Value.IsNull() {
			switch f.Comparator.OrDefault() {
			case Equal, NotEqual, NotEqualLtGt:
			default:
				return Errorf(ErrNullComparison, "Cannot compare to NULL with '%s'", f.Comparator)
			}
		}
	case Membership:
		switch f.Presence.OrDefault() {
		case In, NotIn:
		default:
			return Errorf(ErrUnsupportedPresence, "Unsupported presence '%s'", f.Presence)
		}
	}
	return nil
}

// Eq builds an equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Filter: Is{Value: Of(value)}}
}

// Cmp builds a comparison condition.
func Cmp(column string, comparator Comparator, value any) Condition {
	return Condition{Column: column, Filter: Compare{Value: Of(value), Comparator: comparator}}
}

// OneOf builds an implicit IN condition.
func OneOf(column string, values ...any) Condition {
	return Condition{Column: column, Filter: AnyOf(Values(values...))}
}

// NoneOf builds a NOT IN condition.
func NoneOf(column string, values ...any) Condition {
	return Condition{Column: column, Filter: Membership{Values: Values(values...), Presence: NotIn}}
}

// Unset builds a condition whose value is absent. It is always skipped.
func Unset(column string) Condition {
	return Condition{Column: column, Filter: Is{}}
}
