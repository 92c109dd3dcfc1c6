// Package sqltable connects memtable tables with database/sql:
// ScanRowsAsTable reads a query result into a memtable.Table, and
// NewTableDB exposes memtable views as a read-only virtual database.
package sqltable

import "database/sql"

var _ Rows = &sql.Rows{}

// Rows is an interface with the methods of database/sql.Rows
// needed to scan a query result into a table.
// It allows passing row sets from real databases as well as
// from the virtual driver of this package.
type Rows interface {
	// Columns returns the names of the columns of the result set.
	Columns() ([]string, error)

	// Scan copies the column values of the current row
	// into the variables pointed to by dest.
	Scan(dest ...any) error

	// Close closes the Rows, preventing further enumeration.
	Close() error

	// Next prepares the next result row for reading with Scan,
	// returning false when there is no next row.
	Next() bool

	// Err returns the error, if any,
	// that was encountered during iteration.
	Err() error
}
