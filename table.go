package memtable

import (
	"fmt"
	"slices"
	"sync"
)

// Table is the owned row storage backend:
// an in-memory sequence of rows of parsed Values.
// It is the only mutable backend.
//
// A Table is safe for concurrent use: any number of readers
// (cell access, iterators, query operations, derived slices)
// may run concurrently, mutations take exclusive access
// and are never observable mid-update.
type Table struct {
	mu   sync.RWMutex
	data tableData
}

// tableData is the unsynchronized row storage behind a Table.
// It implements View for use inside scan callbacks
// which run under the table's read lock.
type tableData struct {
	cols *Columns
	rows [][]Value
}

func (d *tableData) Columns() *Columns { return d.cols }

func (d *tableData) NumRows() int { return len(d.rows) }

func (d *tableData) CellValue(row, col int) (Value, error) {
	if row < 0 || row >= len(d.rows) {
		return Value{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, row, len(d.rows))
	}
	if col < 0 || col >= d.cols.Len() {
		return Value{}, fmt.Errorf("%w: column index %d is beyond table width %d", ErrIndexOutOfBounds, col, d.cols.Len())
	}
	return d.rows[row][col], nil
}

// NewTable returns an empty Table with the passed column names,
// or an error wrapping ErrDuplicateColumn when a name repeats.
func NewTable(columns ...string) (*Table, error) {
	cols, err := NewColumns(columns...)
	if err != nil {
		return nil, err
	}
	return &Table{data: tableData{cols: cols}}, nil
}

// NewTableFromStrings builds a Table from raw string records.
// The first record is the header and becomes the column index,
// duplicate header names fail.
// The remaining records become rows, parsed by ParseValue inference,
// or by ParseValueWithType when a schema is passed.
// The schema length must equal the column count.
// Any record width mismatch or parse failure fails the whole load.
func NewTableFromStrings(records [][]string, schema ...ValueType) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot create table from zero records, a header record is required")
	}
	cols, err := NewColumns(records[0]...)
	if err != nil {
		return nil, err
	}
	if len(schema) > 0 && len(schema) != cols.Len() {
		return nil, fmt.Errorf("%w: column count %d and schema length %d do not match", ErrSchemaLengthMismatch, cols.Len(), len(schema))
	}
	rows := make([][]Value, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != cols.Len() {
			return nil, fmt.Errorf("%w: row %d has %d values, table has %d columns", ErrRowWidthMismatch, i, len(record), cols.Len())
		}
		row := make([]Value, len(record))
		for col, field := range record {
			if len(schema) == 0 {
				row[col] = ParseValue(field)
				continue
			}
			val, err := ParseValueWithType(field, schema[col])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, cols.Name(col), err)
			}
			row[col] = val
		}
		rows = append(rows, row)
	}
	return &Table{data: tableData{cols: cols, rows: rows}}, nil
}

// Columns returns the current column index of the table.
// Column mutations replace the returned instance instead of
// changing it, so the result is a consistent snapshot.
func (t *Table) Columns() *Columns {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data.cols
}

// Len returns the number of rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data.rows)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.Len()
}

// Width returns the number of columns.
func (t *Table) Width() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data.cols.Len()
}

// CellValue returns the stored value of the cell at row and col.
func (t *Table) CellValue(row, col int) (Value, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data.CellValue(row, col)
}

// Row returns a view of the row at index,
// or an error wrapping ErrIndexOutOfBounds.
func (t *Table) Row(index int) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.data.rows) {
		return Row{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, index, len(t.data.rows))
	}
	return Row{source: t, cols: t.data.cols, index: index}, nil
}

// Iter returns an iterator over the table's rows
// in ascending index order.
func (t *Table) Iter() *RowIter {
	return newRowIter(t)
}

func (t *Table) scan(fn func(data View) error) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return fn(&t.data)
}

// AppendRow appends a row of values in column order.
// Fails with an error wrapping ErrRowWidthMismatch when the
// value count does not match the column count.
func (t *Table) AppendRow(values ...Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(values) != t.data.cols.Len() {
		return fmt.Errorf("%w: row has %d values, table has %d columns", ErrRowWidthMismatch, len(values), t.data.cols.Len())
	}
	t.data.rows = append(t.data.rows, slices.Clone(values))
	return nil
}

// AppendTable appends every row of the source view,
// matching the source's columns to the table's columns by name.
// Fails with an error wrapping ErrColumnNotFound when the source
// is missing one of the table's columns.
// The source may be this table itself or a slice of it.
func (t *Table) AppendTable(source View) error {
	cols := t.Columns()
	srcCols := source.Columns()
	positions := make([]int, cols.Len())
	for i := 0; i < cols.Len(); i++ {
		pos, ok := srcCols.Position(cols.Name(i))
		if !ok {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, cols.Name(i))
		}
		positions[i] = pos
	}

	// Materialize the source rows before taking the write lock
	// so that appending a table or slice to itself cannot deadlock.
	numRows := source.NumRows()
	rows := make([][]Value, numRows)
	for i := range rows {
		row := make([]Value, len(positions))
		for k, pos := range positions {
			val, err := source.CellValue(i, pos)
			if err != nil {
				return err
			}
			row[k] = val
		}
		rows[i] = row
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.data.cols.Len() != len(positions) {
		return fmt.Errorf("%w: row has %d values, table has %d columns", ErrRowWidthMismatch, len(positions), t.data.cols.Len())
	}
	t.data.rows = append(t.data.rows, rows...)
	return nil
}

// AddColumn appends a column and fills every existing row with value.
// Fails with an error wrapping ErrDuplicateColumn
// when the name already exists.
func (t *Table) AddColumn(name string, value Value) error {
	return t.AddColumnWith(name, func() Value { return value })
}

// AddColumnWith appends a column and fills every existing row with a
// value from gen, invoked once per row in ascending row order.
// gen need not be deterministic, each row may receive a distinct value.
// It is called while the table is locked and must not call back
// into the table.
func (t *Table) AddColumnWith(name string, gen func() Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cols, err := t.data.cols.withAppended(name)
	if err != nil {
		return err
	}
	for i, row := range t.data.rows {
		t.data.rows[i] = append(row, gen())
	}
	t.data.cols = cols
	return nil
}

// RenameColumn renames a column, keeping its position and cells.
// Fails with an error wrapping ErrColumnNotFound when oldName does
// not exist, or ErrDuplicateColumn when newName is already taken.
func (t *Table) RenameColumn(oldName, newName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cols, err := t.data.cols.withRenamed(oldName, newName)
	if err != nil {
		return err
	}
	t.data.cols = cols
	return nil
}

// SetValue replaces the value of the cell at row and column.
func (t *Table) SetValue(row int, column string, value Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	pos, ok := t.data.cols.Position(column)
	if !ok {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	if row < 0 || row >= len(t.data.rows) {
		return fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, row, len(t.data.rows))
	}
	t.data.rows[row][pos] = value
	return nil
}

// GroupBy partitions the table's rows by their value at column.
// Every group is a slice sharing this table's storage, with the
// group's rows in their original relative order.
// No guarantee is made for the iteration order of the result map.
func (t *Table) GroupBy(column string) (map[Value]*TableSlice, error) {
	return groupRows(t, t.Columns(), nil, column)
}

// Unique returns the set of distinct values at column.
func (t *Table) Unique(column string) (map[Value]struct{}, error) {
	return uniqueValues(t, t.Columns(), nil, column)
}

// Find returns a slice of the rows whose value at column
// equals value, preserving row order.
func (t *Table) Find(column string, value Value) (*TableSlice, error) {
	return findEqual(t, t.Columns(), nil, column, value)
}

// FindBy returns a slice of the rows the predicate holds for,
// preserving row order. The predicate is invoked sequentially
// for every row; the passed Row is only valid during the call.
func (t *Table) FindBy(predicate func(Row) bool) (*TableSlice, error) {
	return findMatching(t, t.Columns(), nil, predicate)
}

// Sort returns a slice of all rows sorted by the values of the passed
// columns, comparing lexicographically from the first column on.
// The table's own row order is untouched.
// The sort is not guaranteed to be stable, see SortStable.
func (t *Table) Sort(columns ...string) (*TableSlice, error) {
	return sortIndices(t, t.Columns(), nil, columns, false)
}

// SortStable is like Sort but preserves the original relative order
// of rows with equal sort keys.
func (t *Table) SortStable(columns ...string) (*TableSlice, error) {
	return sortIndices(t, t.Columns(), nil, columns, true)
}

// SortBy returns a slice of all rows sorted by a comparator that
// reports the order of two rows like cmp.Compare.
// The comparator is invoked sequentially; the passed Rows are only
// valid during the call. The sort is not guaranteed to be stable.
func (t *Table) SortBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(t, t.Columns(), nil, compare, false)
}

// SortStableBy is like SortBy but preserves the original relative
// order of rows comparing equal.
func (t *Table) SortStableBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(t, t.Columns(), nil, compare, true)
}

// SplitRowsAt partitions the table's rows into two slices
// [0,mid) and [mid,Len()) sharing this table's storage.
// mid == Len() is valid and yields an empty second slice.
func (t *Table) SplitRowsAt(mid int) (*TableSlice, *TableSlice, error) {
	return splitIndices(t, t.Columns(), nil, mid)
}
