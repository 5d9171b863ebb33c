package model

import "regexp"

// Column references a column, optionally qualified by its table and
// renamed in the output with an alias.
type Column struct {
	Name  string
	Table string
	Alias string
}

// Col references a column by bare name. A name written as "table"."name"
// refers to the same column as Column{Name: name, Table: table}.
func Col(name string) Column { return Column{Name: name} }

// TableCol references a column on a specific table.
func TableCol(table, name string) Column { return Column{Name: name, Table: table} }

// As returns a copy of c with an output alias.
func (c Column) As(alias string) Column {
	c.Alias = alias
	return c
}

// Key is the output key of the column: its alias when set, its name otherwise.
func (c Column) Key() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

var qualifiedColumnRE = regexp.MustCompile(`^"([^"]*)"\."?([^"]*)"?$`)

// Resolve splits a "table"."name" bare name into its parts. Columns that
// already name a table, or that do not use the quoted form, are returned as is.
func (c Column) Resolve() Column {
	if c.Table != "" {
		return c
	}
	if m := qualifiedColumnRE.FindStringSubmatch(c.Name); m != nil {
		return Column{Name: m[2], Table: m[1], Alias: c.Alias}
	}
	return c
}
