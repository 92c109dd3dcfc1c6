package sqltable

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/domonda/go-memtable"
)

// NewTablesDB returns a read-only sql.DB where every view
// of the passed map can be queried under its map key as
// table name using queries of the form:
//
//	SELECT * FROM table
//	SELECT col1, "col2" FROM "table"
//
// Column and table names can be double quoted,
// everything else of the SQL syntax is not supported.
func NewTablesDB(tables map[string]memtable.View) *sql.DB {
	return sql.OpenDB(database{tables: tables})
}

// NewTableDB returns a read-only sql.DB with a single
// queryable table. See NewTablesDB.
func NewTableDB(tableName string, table memtable.View) *sql.DB {
	return NewTablesDB(map[string]memtable.View{
		tableName: table,
	})
}

type database struct {
	tables map[string]memtable.View
}

func (d database) Connect(context.Context) (driver.Conn, error) {
	return d, nil
}

func (d database) Driver() driver.Driver {
	return d
}

func (d database) Open(string) (driver.Conn, error) {
	return d, nil
}

func (d database) OpenConnector(string) (driver.Connector, error) {
	return d, nil
}

func (d database) Prepare(query string) (driver.Stmt, error) {
	return newStmt(d.tables, query)
}

func (database) Close() error {
	return nil
}

func (d database) Begin() (driver.Tx, error) {
	return d, nil
}

func (database) Commit() error {
	return nil
}

func (database) Rollback() error {
	return nil
}
