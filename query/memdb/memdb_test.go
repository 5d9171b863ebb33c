package memdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/satishbabariya/hdbwrap/query/memdb"
	"github.com/satishbabariya/hdbwrap/query/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meteorologen = "meteorologen"

func seed(t *testing.T) *memdb.Engine {
	t.Helper()
	ctx := context.Background()
	db := memdb.New()

	_, err := db.Insert(ctx, meteorologen, []*model.Row{
		piet(),
		model.R("firstName", "John", "lastName", "Bernard", "birthYear", 1937),
		model.R("firstName", "Monique", "lastName", "Somers", "birthYear", 1963),
		model.R("firstName", "Diana", "lastName", "Woei", "birthYear", 1965),
	})
	require.NoError(t, err)

	_, err = db.Insert(ctx, "temperaturen", []*model.Row{
		model.R("year", 1937, "avg", 9.5),
		model.R("year", 1938, "avg", 9.7),
		model.R("year", 1939, "avg", 9.6),
		model.R("year", 1956, "avg", 8.1),
		model.R("year", 1963, "avg", 7.8),
		model.R("year", 1966, "avg", 9.4),
	})
	require.NoError(t, err)
	return db
}

func piet() *model.Row {
	return model.R("firstName", "Piet", "lastName", "Paulusma", "birthYear", 1956)
}

// column collects one column of every row as plain values.
func column(rows []*model.Row, name string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r.Value(name).Interface()
	}
	return out
}

// plain converts rows to maps for comparison.
func plain(rows []*model.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		out[i] = r.Map()
	}
	return out
}

func countWhere(rows []*model.Row, name string, want any) int {
	n := 0
	for _, r := range rows {
		if r.Value(name).Interface() == want {
			n++
		}
	}
	return n
}

func TestEngine_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("single row", func(t *testing.T) {
		db := memdb.New()
		_, err := db.Insert(ctx, "myTable", []*model.Row{model.R("foo", "bar")})
		require.NoError(t, err)

		table := db.Table("myTable")
		require.Len(t, table, 1)
		assert.Equal(t, []string{"foo", "ID"}, table[0].Keys())
		assert.Equal(t, model.Int(memdb.BaseID), table[0].Value("ID"))
	})

	t.Run("multiple rows get distinct increasing IDs", func(t *testing.T) {
		db := memdb.New()
		out, err := db.Insert(ctx, "myTable", []*model.Row{
			model.R("foo", "foo"),
			model.R("bar", "bar"),
			model.R("baz", "baz"),
		})
		require.NoError(t, err)
		assert.Equal(t, plain(db.Table("myTable")), plain(out))
		assert.Equal(t, []any{int64(10000000), int64(10000001), int64(10000002)}, column(out, "ID"))
	})

	t.Run("IDs are shared across tables and never reused", func(t *testing.T) {
		db := memdb.New()
		first, err := db.Insert(ctx, "a", []*model.Row{model.R("x", 1)})
		require.NoError(t, err)
		_, err = db.Delete(ctx, "a", model.Where{model.Eq("x", 1)})
		require.NoError(t, err)
		second, err := db.Insert(ctx, "b", []*model.Row{model.R("x", 1)})
		require.NoError(t, err)

		assert.Equal(t, model.Int(memdb.BaseID), first[0].Value("ID"))
		assert.Equal(t, model.Int(memdb.BaseID+1), second[0].Value("ID"))
	})

	t.Run("multiple tables", func(t *testing.T) {
		db := seed(t)
		_, err := db.Insert(ctx, "myTable", []*model.Row{model.R("foo", "bar")})
		require.NoError(t, err)
		_, err = db.Insert(ctx, "myOtherTable", []*model.Row{model.R("bar", "baz")})
		require.NoError(t, err)

		assert.Len(t, db.Table("myTable"), 1)
		assert.Len(t, db.Table("myOtherTable"), 1)
		assert.Len(t, db.Table(meteorologen), 4)
	})

	t.Run("returned rows do not alias the table", func(t *testing.T) {
		db := memdb.New()
		source := model.R("foo", "bar")
		out, err := db.Insert(ctx, "myTable", []*model.Row{source})
		require.NoError(t, err)

		out[0].Set("foo", model.Text("changed"))
		source.Set("foo", model.Text("changed"))
		assert.Equal(t, model.Text("bar"), db.Table("myTable")[0].Value("foo"))
	})

	t.Run("unknown table is empty", func(t *testing.T) {
		db := memdb.New()
		assert.NotNil(t, db.Table("nothing"))
		assert.Empty(t, db.Table("nothing"))
	})
}

func TestEngine_Reset(t *testing.T) {
	db := seed(t)
	db.Reset()
	assert.Empty(t, db.Table(meteorologen))

	out, err := db.Insert(context.Background(), "t", []*model.Row{model.R("a", 1)})
	require.NoError(t, err)
	assert.Equal(t, model.Int(memdb.BaseID), out[0].Value("ID"))
}

func TestEngine_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("specific entry", func(t *testing.T) {
		db := seed(t)
		n, err := db.Delete(ctx, meteorologen, model.Where{model.Eq("firstName", "Piet")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		table := db.Table(meteorologen)
		assert.Len(t, table, 3)
		assert.Zero(t, countWhere(table, "firstName", "Piet"))
		assert.Equal(t, 1, countWhere(table, "firstName", "Diana"))
	})

	t.Run("multiple entries", func(t *testing.T) {
		db := seed(t)
		n, err := db.Delete(ctx, meteorologen, model.Where{model.OneOf("firstName", "Piet", "Diana")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, []any{"John", "Monique"}, column(db.Table(meteorologen), "firstName"))
	})

	t.Run("missing where", func(t *testing.T) {
		db := seed(t)
		for _, where := range []model.Where{nil, {model.Unset("firstName")}, {model.NoneOf("firstName")}} {
			_, err := db.Delete(ctx, meteorologen, where)
			assert.ErrorIs(t, err, model.ErrMissingWhere)
			assert.EqualError(t, err, "Need a valid where clause!")
		}
		assert.Len(t, db.Table(meteorologen), 4)
	})
}

func TestEngine_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("specific entry", func(t *testing.T) {
		db := seed(t)
		n, err := db.Update(ctx, meteorologen, model.Where{model.Eq("firstName", "Piet")}, model.R("lastName", "Klaassen"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		table := db.Table(meteorologen)
		assert.Len(t, table, 4)
		assert.Equal(t, 1, countWhere(table, "lastName", "Klaassen"))
		assert.Equal(t, model.Text("Klaassen"), table[0].Value("lastName"))
	})

	t.Run("more than one entry", func(t *testing.T) {
		db := seed(t)
		_, err := db.Update(ctx, meteorologen, model.Where{model.Eq("firstName", "Piet")}, model.R("lastName", "Klaassen"))
		require.NoError(t, err)
		n, err := db.Update(ctx, meteorologen, model.Where{model.OneOf("firstName", "Diana", "John")}, model.R("lastName", "Pietersen"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		table := db.Table(meteorologen)
		assert.Equal(t, 1, countWhere(table, "lastName", "Klaassen"))
		assert.Equal(t, 2, countWhere(table, "lastName", "Pietersen"))
	})

	t.Run("absent fields are ignored", func(t *testing.T) {
		db := seed(t)
		data := model.R("lastName", "Klaassen")
		data.Set("birthYear", model.Absent())
		_, err := db.Update(ctx, meteorologen, model.Where{model.Eq("firstName", "Piet")}, data)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"firstName": "Piet",
			"lastName":  "Klaassen",
			"birthYear": int64(1956),
			"ID":        int64(10000000),
		}, db.Table(meteorologen)[0].Map())
	})

	t.Run("null fields are applied", func(t *testing.T) {
		db := seed(t)
		_, err := db.Update(ctx, meteorologen, model.Where{model.Eq("firstName", "Piet")}, model.R("lastName", "Klaassen", "birthYear", nil))
		require.NoError(t, err)

		row := db.Table(meteorologen)[0]
		assert.True(t, row.Value("birthYear").IsNull())
		assert.Equal(t, model.Text("Klaassen"), row.Value("lastName"))
	})

	t.Run("missing where", func(t *testing.T) {
		db := seed(t)
		_, err := db.Update(ctx, meteorologen, model.Where{}, model.R("lastName", "x"))
		assert.ErrorIs(t, err, model.ErrMissingWhere)

		_, err = db.Update(ctx, meteorologen, model.Where{model.NoneOf("firstName")}, model.R("lastName", "x"))
		assert.ErrorIs(t, err, model.ErrMissingWhere)
		assert.NotContains(t, column(db.Table(meteorologen), "lastName"), "x")
	})

	t.Run("null ordering is rejected", func(t *testing.T) {
		db := seed(t)
		_, err := db.Update(ctx, meteorologen, model.Where{model.Cmp("birthYear", model.Less, nil)}, model.R("lastName", "x"))
		assert.ErrorIs(t, err, model.ErrNullComparison)
	})
}

func TestEngine_SelectWhere(t *testing.T) {
	ctx := context.Background()
	db := seed(t)

	t.Run("all", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{})
		require.NoError(t, err)
		assert.Len(t, out, 4)
		assert.Equal(t, plain(db.Table(meteorologen)), plain(out))
	})

	t.Run("scalar", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.Eq("firstName", "Piet")}})
		require.NoError(t, err)
		require.Len(t, out, 1)
		want := piet()
		want.Set("ID", model.Int(memdb.BaseID))
		assert.Equal(t, want.Map(), out[0].Map())
	})

	t.Run("absent filters are ignored", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.Unset("firstName")}})
		require.NoError(t, err)
		assert.Len(t, out, 4)
	})

	t.Run("implicit in", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.OneOf("firstName", "Piet", "Diana")}})
		require.NoError(t, err)
		assert.Equal(t, []any{"Piet", "Diana"}, column(out, "firstName"))
	})

	t.Run("explicit in", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{
			{Column: "firstName", Filter: model.Membership{Values: model.Values("Piet", "Diana"), Presence: model.In}},
		}})
		require.NoError(t, err)
		assert.Equal(t, []any{"Piet", "Diana"}, column(out, "firstName"))
	})

	t.Run("not in", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.NoneOf("firstName", "Piet", "Diana")}})
		require.NoError(t, err)
		assert.Equal(t, []any{"John", "Monique"}, column(out, "firstName"))
	})

	t.Run("empty in matches nothing and empty not in everything", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.OneOf("firstName")}})
		require.NoError(t, err)
		assert.Empty(t, out)

		out, err = db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.NoneOf("firstName")}})
		require.NoError(t, err)
		assert.Len(t, out, 4)
	})

	t.Run("numeric text equals numbers", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.Eq("birthYear", "1963")}})
		require.NoError(t, err)
		assert.Equal(t, []any{"Monique"}, column(out, "firstName"))
	})

	comparators := []struct {
		comparator model.Comparator
		want       []any
	}{
		{model.Equal, []any{int64(1963)}},
		{model.NotEqual, []any{int64(1956), int64(1937), int64(1965)}},
		{model.NotEqualLtGt, []any{int64(1956), int64(1937), int64(1965)}},
		{model.Less, []any{int64(1956), int64(1937)}},
		{model.LessOrEqual, []any{int64(1956), int64(1937), int64(1963)}},
		{model.Greater, []any{int64(1965)}},
		{model.GreaterOrEqual, []any{int64(1963), int64(1965)}},
	}
	for _, tt := range comparators {
		t.Run("comparator "+string(tt.comparator), func(t *testing.T) {
			out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.Cmp("birthYear", tt.comparator, 1963)}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, column(out, "birthYear"))
		})
	}

	t.Run("null with ordering comparator", func(t *testing.T) {
		_, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{model.Cmp("birthYear", model.Greater, nil)}})
		assert.ErrorIs(t, err, model.ErrNullComparison)
	})
}

func TestEngine_SelectMultipleWhere(t *testing.T) {
	ctx := context.Background()
	db := seed(t)
	extra := piet()
	extra.Set("birthYear", model.Int(1990))
	_, err := db.Insert(ctx, meteorologen, []*model.Row{extra})
	require.NoError(t, err)

	out, err := db.Select(ctx, meteorologen, model.SelectOptions{Where: model.Where{
		model.Cmp("birthYear", model.Greater, 1960),
		model.Eq("lastName", "Paulusma"),
	}})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func onYear(typ model.JoinType) []model.Join {
	return []model.Join{{Table: "temperaturen", Type: typ, OnEquals: []model.OnEqual{model.On("year", "birthYear")}}}
}

func TestEngine_SelectJoin(t *testing.T) {
	ctx := context.Background()
	columns := model.Columns("firstName", "avg", "year")

	t.Run("inner", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: columns, Join: onYear("")})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"firstName": "Piet", "avg": 8.1, "year": int64(1956)},
			{"firstName": "John", "avg": 9.5, "year": int64(1937)},
			{"firstName": "Monique", "avg": 7.8, "year": int64(1963)},
		}, plain(out))
	})

	t.Run("duplicates matching rows", func(t *testing.T) {
		db := seed(t)
		_, err := db.Insert(ctx, "temperaturen", []*model.Row{model.R("year", 1937, "avg", 10)})
		require.NoError(t, err)

		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: columns, Join: onYear(model.InnerJoin)})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"firstName": "Piet", "avg": 8.1, "year": int64(1956)},
			{"firstName": "John", "avg": 9.5, "year": int64(1937)},
			{"firstName": "John", "avg": int64(10), "year": int64(1937)},
			{"firstName": "Monique", "avg": 7.8, "year": int64(1963)},
		}, plain(out))
	})

	t.Run("left", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: columns, Join: onYear(model.LeftJoin)})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"firstName": "Piet", "avg": 8.1, "year": int64(1956)},
			{"firstName": "John", "avg": 9.5, "year": int64(1937)},
			{"firstName": "Monique", "avg": 7.8, "year": int64(1963)},
			{"firstName": "Diana", "avg": nil, "year": nil},
		}, plain(out))
	})

	t.Run("right", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: columns, Join: onYear(model.RightJoin)})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"firstName": "Piet", "avg": 8.1, "year": int64(1956)},
			{"firstName": "John", "avg": 9.5, "year": int64(1937)},
			{"firstName": "Monique", "avg": 7.8, "year": int64(1963)},
			{"firstName": nil, "avg": 9.7, "year": int64(1938)},
			{"firstName": nil, "avg": 9.6, "year": int64(1939)},
			{"firstName": nil, "avg": 9.4, "year": int64(1966)},
		}, plain(out))
	})

	t.Run("where on joined table", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: columns,
			Join:    onYear(""),
			Where:   model.Where{model.Cmp("avg", model.LessOrEqual, 8.5)},
		})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"firstName": "Piet", "avg": 8.1, "year": int64(1956)},
			{"firstName": "Monique", "avg": 7.8, "year": int64(1963)},
		}, plain(out))
	})

	t.Run("where on a specific table", func(t *testing.T) {
		db := seed(t)
		tempID := db.Table("temperaturen")[0].Value("ID")
		want := []map[string]any{{"firstName": "John", "avg": 9.5, "year": int64(1937)}}

		out, err := db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: columns,
			Join:    onYear(""),
			Where:   model.Where{{Column: `"temperaturen"."ID"`, Filter: model.Is{Value: tempID}}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, plain(out))

		out, err = db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: columns,
			Join:    onYear(""),
			Where:   model.Where{{Column: "ID", Filter: model.Compare{Value: tempID, Table: "temperaturen"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, plain(out))
	})

	t.Run("join on a specific table", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: model.Columns("firstName", "avg"),
			Join: []model.Join{{Table: "temperaturen", OnEquals: []model.OnEqual{
				model.On("year", model.TableCol(meteorologen, "birthYear")),
			}}},
			Where: model.Where{model.Eq("firstName", "John")},
		})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{{"firstName": "John", "avg": 9.5}}, plain(out))
	})

	t.Run("all columns merge with the rightmost table winning", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Join: onYear(""), Limit: 1})
		require.NoError(t, err)
		require.Len(t, out, 1)

		tempID := db.Table("temperaturen")[3].Value("ID")
		assert.Equal(t, []string{"firstName", "lastName", "birthYear", "ID", "year", "avg"}, out[0].Keys())
		assert.Equal(t, tempID, out[0].Value("ID"))
	})

	t.Run("unsupported join type", func(t *testing.T) {
		db := seed(t)
		_, err := db.Select(ctx, meteorologen, model.SelectOptions{Join: onYear("CROSS")})
		assert.ErrorIs(t, err, model.ErrUnsupportedJoin)
	})
}

func TestEngine_SelectOrderBy(t *testing.T) {
	ctx := context.Background()

	t.Run("ascending by default", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{OrderBy: []model.OrderBy{model.Sort("birthYear")}})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1937), int64(1956), int64(1963), int64(1965)}, column(out, "birthYear"))
	})

	t.Run("direction", func(t *testing.T) {
		db := seed(t)
		asc, err := db.Select(ctx, meteorologen, model.SelectOptions{OrderBy: []model.OrderBy{model.Ascending("birthYear")}})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1937), int64(1956), int64(1963), int64(1965)}, column(asc, "birthYear"))

		desc, err := db.Select(ctx, meteorologen, model.SelectOptions{OrderBy: []model.OrderBy{model.Descending("birthYear")}})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1965), int64(1963), int64(1956), int64(1937)}, column(desc, "birthYear"))
	})

	t.Run("numeric text and null order as numbers", func(t *testing.T) {
		db := seed(t)
		_, err := db.Insert(ctx, meteorologen, []*model.Row{model.R("birthYear", "945")})
		require.NoError(t, err)
		_, err = db.Insert(ctx, meteorologen, []*model.Row{model.R("birthYear", nil)})
		require.NoError(t, err)

		out, err := db.Select(ctx, meteorologen, model.SelectOptions{OrderBy: []model.OrderBy{model.Sort("birthYear")}})
		require.NoError(t, err)
		assert.Equal(t, []any{nil, "945", int64(1937), int64(1956), int64(1963), int64(1965)}, column(out, "birthYear"))
	})

	t.Run("multiple columns", func(t *testing.T) {
		db := seed(t)
		klaas := piet()
		klaas.Set("firstName", model.Text("Klaas"))
		_, err := db.Insert(ctx, meteorologen, []*model.Row{klaas, piet()})
		require.NoError(t, err)

		out, err := db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: model.Columns("firstName", "birthYear"),
			OrderBy: []model.OrderBy{model.Sort("birthYear"), model.Sort("firstName")},
		})
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{
			{"birthYear": int64(1937), "firstName": "John"},
			{"birthYear": int64(1956), "firstName": "Klaas"},
			{"birthYear": int64(1956), "firstName": "Piet"},
			{"birthYear": int64(1956), "firstName": "Piet"},
			{"birthYear": int64(1963), "firstName": "Monique"},
			{"birthYear": int64(1965), "firstName": "Diana"},
		}, plain(out))
	})

	t.Run("stable on ties", func(t *testing.T) {
		db := seed(t)
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{OrderBy: []model.OrderBy{model.Sort("nothing")}})
		require.NoError(t, err)
		assert.Equal(t, []any{"Piet", "John", "Monique", "Diana"}, column(out, "firstName"))
	})
}

func TestEngine_SelectColumns(t *testing.T) {
	ctx := context.Background()
	db := seed(t)

	t.Run("filter", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: model.Columns("ID", "firstName")})
		require.NoError(t, err)
		require.Len(t, out, 4)
		for _, r := range out {
			assert.Equal(t, []string{"ID", "firstName"}, r.Keys())
		}
		assert.Equal(t, []any{"Piet", "John", "Monique", "Diana"}, column(out, "firstName"))
	})

	t.Run("alias", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: model.Columns("ID", model.Col("firstName").As("name"))})
		require.NoError(t, err)
		assert.Equal(t, []any{"Piet", "John", "Monique", "Diana"}, column(out, "name"))
		assert.False(t, out[0].Has("firstName"))
	})

	t.Run("table of an output column", func(t *testing.T) {
		out, err := db.Select(ctx, meteorologen, model.SelectOptions{
			Columns: []model.Column{
				model.TableCol("temperaturen", "ID").As("tempId"),
				model.TableCol(meteorologen, "ID").As("meteoId"),
			},
			Join:  onYear(""),
			Limit: 1,
		})
		require.NoError(t, err)

		meteo := db.Table(meteorologen)[0]
		temps, err := db.Select(ctx, "temperaturen", model.SelectOptions{Where: model.Where{{Column: "year", Filter: model.Is{Value: meteo.Value("birthYear")}}}})
		require.NoError(t, err)
		require.Len(t, temps, 1)

		assert.Equal(t, []map[string]any{{
			"meteoId": meteo.Value("ID").Interface(),
			"tempId":  temps[0].Value("ID").Interface(),
		}}, plain(out))
	})

	t.Run("duplicate alias", func(t *testing.T) {
		_, err := db.Select(ctx, meteorologen, model.SelectOptions{Columns: model.Columns("firstName", model.Col("lastName").As("firstName"))})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrDuplicateAlias)
		assert.EqualError(t, err, "Duplicate alias 'firstName' in query!")
	})
}

func TestEngine_SelectLimit(t *testing.T) {
	ctx := context.Background()
	db := seed(t)

	out, err := db.Select(ctx, meteorologen, model.SelectOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = db.Select(ctx, meteorologen, model.SelectOptions{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestEngine_SelectAllOptions(t *testing.T) {
	db := seed(t)
	out, err := db.Select(context.Background(), meteorologen, model.SelectOptions{
		Columns: model.Columns("firstName", "lastName"),
		Join:    onYear(""),
		Where:   model.Where{model.Cmp("avg", model.GreaterOrEqual, 8.1)},
		OrderBy: []model.OrderBy{model.Descending("birthYear")},
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"firstName": "Piet", "lastName": "Paulusma"},
		{"firstName": "John", "lastName": "Bernard"},
	}, plain(out))
}

func TestEngine_SelectDoesNotAliasTables(t *testing.T) {
	ctx := context.Background()
	db := seed(t)

	out, err := db.Select(ctx, meteorologen, model.SelectOptions{})
	require.NoError(t, err)
	out[0].Set("firstName", model.Text("changed"))

	assert.Equal(t, model.Text("Piet"), db.Table(meteorologen)[0].Value("firstName"))
}

func TestEngine_Unsupported(t *testing.T) {
	ctx := context.Background()
	db := memdb.New()

	_, err := db.Execute(ctx, "SELECT 1")
	assert.ErrorIs(t, err, memdb.ErrExecuteUnsupported)
	assert.Contains(t, err.Error(), "Direct SQL execution is not supported in Test")

	_, err = db.ExecuteBatch(ctx, "SELECT 1", nil)
	assert.ErrorIs(t, err, memdb.ErrExecuteUnsupported)

	_, err = db.Procedure(ctx, "MY_PROC")
	assert.ErrorIs(t, err, memdb.ErrProcedureUnsupported)
	assert.Contains(t, err.Error(), "DB Procedure execution is not supported in Test")
}

func TestEngine_Timestamp(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 3, 4, 5, 6, 7, 890000000, time.FixedZone("CET", 3600))
	db := memdb.New(memdb.WithClock(func() time.Time { return now }))

	assert.Equal(t, "2021-03-04T04:06:07.890Z", db.Timestamp())

	now = now.Add(time.Hour)
	assert.Equal(t, "2021-03-04T04:06:07.890Z", db.Timestamp(), "cached within a transaction")

	require.NoError(t, db.Commit(ctx, false))
	assert.Equal(t, "2021-03-04T05:06:07.890Z", db.Timestamp())

	now = now.Add(time.Hour)
	require.NoError(t, db.Rollback(ctx, true))
	assert.Equal(t, "2021-03-04T06:06:07.890Z", db.Timestamp())
}
