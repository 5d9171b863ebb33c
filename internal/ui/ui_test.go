package ui_test

import (
	"bytes"
	"testing"

	"github.com/satishbabariya/hdbwrap/internal/ui"
	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/satishbabariya/hdbwrap/query/sqlgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	ui.DisableColor()
	var buf bytes.Buffer
	out, errOut := ui.Out, ui.Err
	ui.Out, ui.Err = &buf, &buf
	t.Cleanup(func() { ui.Out, ui.Err = out, errOut })
	return &buf
}

func TestTableData(t *testing.T) {
	rows := []*model.Row{
		model.R("firstName", "Piet", "birthYear", 1956),
		model.R("firstName", "John", "avg", nil),
		model.R("lastName", "Woei"),
	}

	headers, cells := ui.TableData(rows)
	assert.Equal(t, []string{"firstName", "birthYear", "avg", "lastName"}, headers)
	assert.Equal(t, [][]string{
		{"Piet", "1956", "NULL", "NULL"},
		{"John", "NULL", "NULL", "NULL"},
		{"NULL", "NULL", "NULL", "Woei"},
	}, cells)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "NULL", ui.Cell(model.Absent()))
	assert.Equal(t, "NULL", ui.Cell(model.Null()))
	assert.Equal(t, "9.5", ui.Cell(model.Float(9.5)))
	assert.Equal(t, "true", ui.Cell(model.Bool(true)))
}

func TestPrintRows(t *testing.T) {
	buf := capture(t)

	require.NoError(t, ui.PrintRows([]*model.Row{
		model.R("firstName", "Piet"),
		model.R("firstName", "John"),
	}))
	out := buf.String()
	assert.Contains(t, out, "firstName")
	assert.Contains(t, out, "Piet")
	assert.Contains(t, out, "John")
	assert.Contains(t, out, "2 row(s)")
}

func TestPrintRows_Empty(t *testing.T) {
	buf := capture(t)
	require.NoError(t, ui.PrintRows(nil))
	assert.Contains(t, buf.String(), "no rows")
}

func TestPrintQuery(t *testing.T) {
	buf := capture(t)

	ui.PrintQuery(sqlgen.Query{SQL: `SELECT * FROM "t" WHERE "a" = ?`, Args: []any{"x", int64(2), nil}})
	assert.Equal(t, "SELECT * FROM \"t\" WHERE \"a\" = ?\n  [\"x\", 2, NULL]\n", buf.String())

	buf.Reset()
	ui.PrintQuery(sqlgen.Query{SQL: `INSERT INTO "t" ("a") VALUES (?)`, Batch: [][]any{{"x"}, {"y"}}})
	assert.Equal(t, "INSERT INTO \"t\" (\"a\") VALUES (?)\n  #1 [\"x\"]\n  #2 [\"y\"]\n", buf.String())
}

func TestMessages(t *testing.T) {
	buf := capture(t)

	ui.PrintSuccess("done %d", 1)
	ui.PrintError("failed")
	ui.PrintInfo("note")
	ui.PrintWarning("careful")
	ui.PrintHeader("hdbwrap", "query runner")

	out := buf.String()
	for _, want := range []string{"✓ done 1", "✗ failed", "ℹ note", "⚠ careful", "hdbwrap", "query runner"} {
		assert.Contains(t, out, want)
	}
}
