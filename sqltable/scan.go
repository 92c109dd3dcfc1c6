package sqltable

import (
	"context"
	"slices"

	"github.com/domonda/go-memtable"
)

// ScanRowsAsTable reads all rows of a database query result
// into a memtable.Table.
// The column names of the result set become the table columns
// and every scanned cell is converted with memtable.AnyValue.
// rows is closed before the function returns.
func ScanRowsAsTable(ctx context.Context, rows Rows) (*memtable.Table, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	table, err := memtable.NewTable(columns...)
	if err != nil {
		return nil, err
	}

	scanned := make([]any, len(columns))
	scanners := make([]any, len(columns))
	for i := range scanners {
		scanners[i] = valueScanner{&scanned[i]}
	}
	values := make([]memtable.Value, len(columns))
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := rows.Scan(scanners...); err != nil {
			return nil, err
		}
		for i, v := range scanned {
			values[i] = memtable.AnyValue(v)
		}
		if err := table.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

type valueScanner struct {
	dest *any
}

func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		*s.dest = slices.Clone(b)
		return nil
	}
	*s.dest = src
	return nil
}
