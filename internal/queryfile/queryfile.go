// Package queryfile decodes query documents and fixtures written in YAML
// or JSON. Mapping order is preserved wherever it is significant.
package queryfile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/satishbabariya/hdbwrap/runtime"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Fs is the filesystem query files are read from.
var Fs = afero.NewOsFs()

// ErrInvalid is wrapped by every decoding error.
var ErrInvalid = errors.New("invalid query file")

// Operation is the statement a document describes.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Document is one decoded query.
type Document struct {
	Operation Operation
	Table     string
	Select    model.SelectOptions
	Data      *model.Row
	Rows      []*model.Row
	Unique    []string
}

// ReadFile reads and parses the query document at path.
func ReadFile(path string) (*Document, error) {
	data, err := afero.ReadFile(Fs, path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a query document.
func Parse(data []byte) (*Document, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, err
	}

	doc := &Document{Operation: OpSelect}
	err = eachPair(root, func(key string, n *yaml.Node) error {
		var err error
		switch key {
		case "operation":
			var op string
			if op, err = scalarString(n); err == nil {
				doc.Operation = Operation(strings.ToLower(op))
			}
		case "table":
			doc.Table, err = scalarString(n)
		case "columns":
			doc.Select.Columns, err = decodeColumns(n)
		case "join":
			doc.Select.Join, err = decodeJoins(n)
		case "where":
			doc.Select.Where, err = decodeWhere(n)
		case "orderBy":
			doc.Select.OrderBy, err = decodeOrderBy(n)
		case "limit":
			err = decodeScalar(n, &doc.Select.Limit)
		case "data":
			doc.Data, err = decodeRow(n)
		case "rows":
			doc.Rows, err = decodeRows(n)
		case "unique":
			doc.Unique, err = decodeStrings(n)
		default:
			err = invalid(n, "unknown field %q", key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if doc.Table == "" {
		return nil, invalid(root, "missing table")
	}
	switch doc.Operation {
	case OpSelect, OpInsert, OpUpdate, OpDelete:
	default:
		return nil, invalid(root, "unknown operation %q", doc.Operation)
	}
	if doc.Operation == OpUpdate && doc.Data == nil {
		return nil, invalid(root, "update needs data")
	}
	return doc, nil
}

// Compile renders the document into SQL.
func (d *Document) Compile() (sqlgen.Query, error) {
	switch d.Operation {
	case OpInsert:
		return sqlgen.Insert(d.Table, d.Rows)
	case OpUpdate:
		return sqlgen.Update(d.Table, d.Select.Where, d.Data)
	case OpDelete:
		return sqlgen.Delete(d.Table, d.Select.Where)
	default:
		return sqlgen.Select(d.Table, d.Select)
	}
}

// Run executes the document on db. Selects and inserts fill Rows, updates
// and deletes RowsAffected.
func (d *Document) Run(ctx context.Context, db runtime.DB) (model.Result, error) {
	switch d.Operation {
	case OpInsert:
		rows, err := db.Insert(ctx, d.Table, d.Rows, d.Unique...)
		return model.Result{Rows: rows, RowsAffected: int64(len(d.Rows))}, err
	case OpUpdate:
		n, err := db.Update(ctx, d.Table, d.Select.Where, d.Data)
		return model.Result{RowsAffected: n}, err
	case OpDelete:
		n, err := db.Delete(ctx, d.Table, d.Select.Where)
		return model.Result{RowsAffected: n}, err
	default:
		rows, err := db.Select(ctx, d.Table, d.Select)
		return model.Result{Rows: rows}, err
	}
}

func parseRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, invalid(root, "expected a mapping")
	}
	return root, nil
}

func invalid(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalid, n.Line, fmt.Sprintf(format, args...))
}

// eachPair calls fn for every key of a mapping in document order.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return invalid(n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return invalid(k, "expected a scalar key")
		}
		if err := fn(k.Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func items(n *yaml.Node) ([]*yaml.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(n, "expected a list")
	}
	return n.Content, nil
}

func decodeScalar(n *yaml.Node, out any) error {
	if n.Kind != yaml.ScalarNode {
		return invalid(n, "expected a scalar")
	}
	if err := n.Decode(out); err != nil {
		return invalid(n, "%v", err)
	}
	return nil
}

func scalarString(n *yaml.Node) (string, error) {
	var s string
	err := decodeScalar(n, &s)
	return s, err
}

func decodeStrings(n *yaml.Node) ([]string, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, item := range list {
		if out[i], err = scalarString(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeValue converts a scalar by its resolved tag.
func decodeValue(n *yaml.Node) (model.Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return model.Value{}, invalid(n, "expected a scalar value")
	}
	switch n.ShortTag() {
	case "!!null":
		return model.Null(), nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return model.Bool(b), err
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return model.Value{}, invalid(n, "%v", err)
		}
		return model.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return model.Value{}, invalid(n, "%v", err)
		}
		return model.Float(f), nil
	default:
		return model.Text(n.Value), nil
	}
}

func decodeValues(n *yaml.Node) ([]model.Value, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	out := make([]model.Value, len(list))
	for i, item := range list {
		if out[i], err = decodeValue(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeRow(n *yaml.Node) (*model.Row, error) {
	row := &model.Row{}
	err := eachPair(n, func(key string, value *yaml.Node) error {
		v, err := decodeValue(value)
		if err != nil {
			return err
		}
		row.Set(key, v)
		return nil
	})
	return row, err
}

func decodeRows(n *yaml.Node) ([]*model.Row, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	rows := make([]*model.Row, len(list))
	for i, item := range list {
		if rows[i], err = decodeRow(item); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// decodeColumn accepts a bare name or {name, table, alias}.
func decodeColumn(n *yaml.Node) (model.Column, error) {
	if n.Kind == yaml.ScalarNode {
		name, err := scalarString(n)
		return model.Col(name), err
	}
	var c model.Column
	err := eachPair(n, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "name", "column":
			c.Name, err = scalarString(value)
		case "table":
			c.Table, err = scalarString(value)
		case "alias", "as":
			c.Alias, err = scalarString(value)
		default:
			err = invalid(value, "unknown column field %q", key)
		}
		return err
	})
	if err == nil && c.Name == "" {
		err = invalid(n, "column needs a name")
	}
	return c, err
}

func decodeColumns(n *yaml.Node) ([]model.Column, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	out := make([]model.Column, len(list))
	for i, item := range list {
		if out[i], err = decodeColumn(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeJoins(n *yaml.Node) ([]model.Join, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	out := make([]model.Join, len(list))
	for i, item := range list {
		j := &out[i]
		err := eachPair(item, func(key string, value *yaml.Node) error {
			switch key {
			case "table":
				var err error
				j.Table, err = scalarString(value)
				return err
			case "type":
				t, err := scalarString(value)
				j.Type = model.JoinType(strings.ToUpper(t))
				return err
			case "on":
				return eachPair(value, func(col string, other *yaml.Node) error {
					c, err := decodeColumn(other)
					if err != nil {
						return err
					}
					j.OnEquals = append(j.OnEquals, model.On(col, c))
					return nil
				})
			default:
				return invalid(value, "unknown join field %q", key)
			}
		})
		if err != nil {
			return nil, err
		}
		if j.Table == "" {
			return nil, invalid(item, "join needs a table")
		}
	}
	return out, nil
}

// decodeWhere maps each key to a filter:
//
//	column: value                              equality, null tests IS NULL
//	column: [a, b]                             IN
//	column: {comparator: ">", value: 1}        comparison
//	column: {values: [a], presence: NOT IN}    membership
func decodeWhere(n *yaml.Node) (model.Where, error) {
	var where model.Where
	err := eachPair(n, func(column string, value *yaml.Node) error {
		f, err := decodeFilter(value)
		if err != nil {
			return err
		}
		where = append(where, model.Condition{Column: column, Filter: f})
		return nil
	})
	return where, err
}

func decodeFilter(n *yaml.Node) (model.Filter, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		values, err := decodeValues(n)
		return model.AnyOf(values), err
	case yaml.MappingNode:
	default:
		v, err := decodeValue(n)
		return model.Is{Value: v}, err
	}

	var (
		cmp        model.Compare
		member     model.Membership
		hasValue   bool
		hasValues  bool
		table      string
		comparator string
		presence   string
	)
	err := eachPair(n, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "value":
			hasValue = true
			cmp.Value, err = decodeValue(value)
		case "values":
			hasValues = true
			member.Values, err = decodeValues(value)
		case "comparator":
			comparator, err = scalarString(value)
		case "presence":
			presence, err = scalarString(value)
		case "table":
			table, err = scalarString(value)
		default:
			err = invalid(value, "unknown filter field %q", key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case hasValue && hasValues:
		return nil, invalid(n, "filter has both value and values")
	case hasValue:
		cmp.Comparator = model.Comparator(comparator)
		cmp.Table = table
		return cmp, nil
	case hasValues:
		member.Presence = model.Presence(strings.ToUpper(presence))
		member.Table = table
		return member, nil
	default:
		return nil, invalid(n, "filter needs value or values")
	}
}

func decodeOrderBy(n *yaml.Node) ([]model.OrderBy, error) {
	list, err := items(n)
	if err != nil {
		return nil, err
	}
	out := make([]model.OrderBy, len(list))
	for i, item := range list {
		if item.Kind == yaml.ScalarNode {
			name, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			out[i] = model.Sort(name)
			continue
		}
		o := &out[i]
		err := eachPair(item, func(key string, value *yaml.Node) error {
			var (
				s   string
				err error
			)
			switch key {
			case "column", "name":
				s, err = scalarString(value)
				o.Column.Name = s
			case "table":
				s, err = scalarString(value)
				o.Column.Table = s
			case "direction":
				s, err = scalarString(value)
				o.Direction = model.Direction(strings.ToUpper(s))
			default:
				err = invalid(value, "unknown orderBy field %q", key)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		if o.Column.Name == "" {
			return nil, invalid(item, "orderBy needs a column")
		}
	}
	return out, nil
}
