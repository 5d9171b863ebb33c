package queryfile

import (
	"context"
	"fmt"

	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/runtime"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Fixture is seed data: rows per table, in document order.
type Fixture struct {
	Tables []Table
}

// Table holds the rows of one table.
type Table struct {
	Name string
	Rows []*model.Row
}

// ReadFixture reads and parses the fixture at path.
func ReadFixture(path string) (*Fixture, error) {
	data, err := afero.ReadFile(Fs, path)
	if err != nil {
		return nil, err
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFixture decodes a {table: [rows...]} document.
func ParseFixture(data []byte) (*Fixture, error) {
	root, err := parseRoot(data)
	if err != nil {
		return nil, err
	}
	f := &Fixture{}
	err = eachPair(root, func(name string, n *yaml.Node) error {
		rows, err := decodeRows(n)
		if err != nil {
			return err
		}
		f.Tables = append(f.Tables, Table{Name: name, Rows: rows})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Load inserts every table into db. The transaction is left open.
func (f *Fixture) Load(ctx context.Context, db runtime.DB) error {
	for _, t := range f.Tables {
		if _, err := db.Insert(ctx, t.Name, t.Rows); err != nil {
			return fmt.Errorf("load fixture table %s: %w", t.Name, err)
		}
	}
	return nil
}
