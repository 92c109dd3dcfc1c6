package sqltable

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/domonda/go-memtable"
)

var _ driver.Stmt = new(stmt)

// stmt is a prepared SELECT statement over a memtable.View.
// Column projection and reordering are resolved at preparation
// time into a mapping from query columns to source columns.
type stmt struct {
	view memtable.View

	// columns and mapping are nil when the query selects
	// all source columns in their original order.
	columns []string
	mapping []int
}

func newStmt(tables map[string]memtable.View, query string) (*stmt, error) {
	queryColumns, tableName, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	view := tables[tableName]
	if view == nil {
		return nil, fmt.Errorf("table %q not found", tableName)
	}
	if len(queryColumns) == 1 && queryColumns[0] == "*" {
		return &stmt{view: view}, nil
	}
	sourceColumns := view.Columns()
	if slices.Equal(queryColumns, sourceColumns.Names()) {
		return &stmt{view: view}, nil
	}
	mapping := make([]int, len(queryColumns))
	for i, queryColumn := range queryColumns {
		pos, ok := sourceColumns.Position(queryColumn)
		if !ok {
			return nil, fmt.Errorf("%w: %q in table %q", memtable.ErrColumnNotFound, queryColumn, tableName)
		}
		mapping[i] = pos
	}
	return &stmt{view: view, columns: queryColumns, mapping: mapping}, nil
}

// Close implements driver.Stmt.
func (s *stmt) Close() error {
	return nil
}

// NumInput implements driver.Stmt.
// Parameterized queries are not supported.
func (s *stmt) NumInput() int {
	return 0
}

// Exec implements driver.Stmt.
// The driver is read-only, so Exec always fails.
func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, errors.New("Exec not implemented")
}

// Query implements driver.Stmt.
func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	return &driverRows{view: s.view, columns: s.columns, mapping: s.mapping}, nil
}

var _ driver.Rows = new(driverRows)

type driverRows struct {
	view     memtable.View
	columns  []string
	mapping  []int
	rowIndex int
}

func (r *driverRows) Columns() []string {
	if r.columns != nil {
		return r.columns
	}
	return r.view.Columns().Names()
}

func (r *driverRows) Close() error {
	r.rowIndex = -1
	return nil
}

func (r *driverRows) Next(dest []driver.Value) error {
	if r.rowIndex < 0 || r.rowIndex >= r.view.NumRows() {
		return io.EOF
	}
	for col := range dest {
		sourceCol := col
		if r.mapping != nil {
			sourceCol = r.mapping[col]
		}
		val, err := r.view.CellValue(r.rowIndex, sourceCol)
		if err != nil {
			return err
		}
		// Value.Any yields only driver.Value compatible types
		dest[col] = val.Any()
	}
	r.rowIndex++
	return nil
}

// queryRegexp matches queries of the form
//
//	SELECT (* or column names) FROM tablename
//
// with optionally double quoted column and table names
// and optional trailing semicolons.
var queryRegexp = regexp.MustCompile(`^(?:SELECT|select)\s+(\*|(?:[a-zA-Z]\w*|"[a-zA-Z]\w*")(?:\s*,\s*[a-zA-Z]\w*|\s*,\s*"[a-zA-Z]\w*")*)\s+(?:FROM|from)\s+([a-zA-Z][\w.]*|"[a-zA-Z][\w.]*")(?:\s*;)*$`)

func parseQuery(query string) (columns []string, table string, err error) {
	query = strings.TrimSpace(query)
	m := queryRegexp.FindStringSubmatch(query)
	if len(m) != 3 {
		return nil, "", fmt.Errorf("invalid query %q", query)
	}
	columns = strings.Split(m[1], ",")
	for i := range columns {
		columns[i] = unquote(strings.TrimSpace(columns[i]))
	}
	return columns, unquote(m[2]), nil
}

func unquote(str string) string {
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		return str[1 : len(str)-1]
	}
	return str
}
