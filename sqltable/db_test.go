package sqltable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-memtable"
)

func mustTable(t *testing.T, records [][]string) *memtable.Table {
	t.Helper()
	table, err := memtable.NewTableFromStrings(records)
	require.NoError(t, err)
	return table
}

func requireSameCells(t *testing.T, want, got memtable.View) {
	t.Helper()
	require.Equal(t, want.NumRows(), got.NumRows())
	require.Equal(t, want.Columns().Len(), got.Columns().Len())
	for row := 0; row < want.NumRows(); row++ {
		for col := 0; col < want.Columns().Len(); col++ {
			wantVal, err := want.CellValue(row, col)
			require.NoError(t, err)
			gotVal, err := got.CellValue(row, col)
			require.NoError(t, err)
			require.Equal(t, wantVal, gotVal, "cell %d/%d", row, col)
		}
	}
}

func TestTableDB(t *testing.T) {
	ctx := context.Background()
	people := mustTable(t, [][]string{
		{"Name", "Born", "Count", "Ratio", "Note"},
		{"Alice", "1984-05-14", "42", "6.5", "hello"},
		{"Bob", "2001-01-02 15:04:05", "-7", "-0.5", ""},
	})
	db := NewTableDB("people", people)
	t.Cleanup(func() { db.Close() })

	t.Run("select all", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `SELECT * FROM people`)
		require.NoError(t, err)
		got, err := ScanRowsAsTable(ctx, rows)
		require.NoError(t, err)
		require.Equal(t, people.Columns().Names(), got.Columns().Names())
		requireSameCells(t, people, got)
	})

	t.Run("identical column list", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `SELECT Name, Born, Count, Ratio, Note FROM people`)
		require.NoError(t, err)
		got, err := ScanRowsAsTable(ctx, rows)
		require.NoError(t, err)
		requireSameCells(t, people, got)
	})

	t.Run("projected and reordered columns", func(t *testing.T) {
		rows, err := db.QueryContext(ctx, `SELECT Ratio, "Name" FROM "people"`)
		require.NoError(t, err)
		got, err := ScanRowsAsTable(ctx, rows)
		require.NoError(t, err)
		require.Equal(t, []string{"Ratio", "Name"}, got.Columns().Names())

		val, err := got.CellValue(0, 0)
		require.NoError(t, err)
		require.Equal(t, memtable.FloatValue(6.5), val)
		val, err = got.CellValue(1, 1)
		require.NoError(t, err)
		require.Equal(t, memtable.StringValue("Bob"), val)
	})

	t.Run("table not found", func(t *testing.T) {
		_, err := db.QueryContext(ctx, `SELECT * FROM missing`)
		require.ErrorContains(t, err, `table "missing" not found`)
	})

	t.Run("column not found", func(t *testing.T) {
		_, err := db.QueryContext(ctx, `SELECT Nope FROM people`)
		require.ErrorIs(t, err, memtable.ErrColumnNotFound)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := db.QueryContext(ctx, `DROP TABLE people`)
		require.ErrorContains(t, err, "invalid query")
	})

	t.Run("exec not supported", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `SELECT * FROM people`)
		require.ErrorContains(t, err, "Exec not implemented")
	})
}

func TestTablesDB(t *testing.T) {
	ctx := context.Background()
	db := NewTablesDB(map[string]memtable.View{
		"people": mustTable(t, [][]string{
			{"Name"},
			{"Alice"},
		}),
		"orders": mustTable(t, [][]string{
			{"ID", "Total"},
		}),
	})
	t.Cleanup(func() { db.Close() })

	rows, err := db.QueryContext(ctx, `SELECT * FROM people`)
	require.NoError(t, err)
	got, err := ScanRowsAsTable(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())

	rows, err = db.QueryContext(ctx, `SELECT Total, ID FROM orders`)
	require.NoError(t, err)
	got, err = ScanRowsAsTable(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, []string{"Total", "ID"}, got.Columns().Names())
	require.Equal(t, 0, got.Len())
}
