package memtable

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// FieldSpan locates one field within a mapped byte buffer
// as a half-open [Start,End) range.
// Escaped marks fields whose raw bytes still contain source-format
// escape sequences that the table's FieldDecoder must resolve.
type FieldSpan struct {
	Start   int
	End     int
	Escaped bool
}

// FieldDecoder decodes a field's raw bytes into the string to parse.
// The data slice aliases the mapped buffer and must not be retained.
type FieldDecoder func(data []byte, escaped bool) string

// MappedTable is the read-only row storage backend over an externally
// owned byte buffer, typically a memory-mapped file.
// Cell values are parsed from the buffer on every access,
// nothing is cached and the buffer is never written.
//
// A MappedTable is immutable after construction, so concurrent
// readers need no synchronization. Structural mutations fail with
// ErrUnsupportedMutation.
type MappedTable struct {
	cols   *Columns
	data   []byte
	rows   [][]FieldSpan
	schema []ValueType
	decode FieldDecoder
	closer io.Closer
	closed atomic.Bool
}

// NewMappedTable builds a MappedTable over data with one FieldSpan
// table per row. A non-nil schema must have exactly one ValueType per
// column and directs cell parsing, otherwise cells are inferred with
// ParseValue. A nil decode uses the raw bytes verbatim.
// Closing the table closes closer, which may be nil.
func NewMappedTable(columns []string, data []byte, rows [][]FieldSpan, schema []ValueType, decode FieldDecoder, closer io.Closer) (*MappedTable, error) {
	cols, err := NewColumns(columns...)
	if err != nil {
		return nil, err
	}
	if schema != nil && len(schema) != cols.Len() {
		return nil, fmt.Errorf("%w: column count %d and schema length %d do not match", ErrSchemaLengthMismatch, cols.Len(), len(schema))
	}
	for i, row := range rows {
		if len(row) != cols.Len() {
			return nil, fmt.Errorf("%w: row %d has %d fields, table has %d columns", ErrRowWidthMismatch, i, len(row), cols.Len())
		}
		for col, span := range row {
			if span.Start < 0 || span.End < span.Start || span.End > len(data) {
				return nil, fmt.Errorf("%w: row %d, field %d: span [%d:%d) is beyond buffer length %d", ErrIndexOutOfBounds, i, col, span.Start, span.End, len(data))
			}
		}
	}
	if decode == nil {
		decode = func(data []byte, escaped bool) string { return string(data) }
	}
	return &MappedTable{
		cols:   cols,
		data:   data,
		rows:   rows,
		schema: schema,
		decode: decode,
		closer: closer,
	}, nil
}

// Columns returns the column index of the table.
func (m *MappedTable) Columns() *Columns {
	return m.cols
}

// Len returns the number of rows.
func (m *MappedTable) Len() int {
	return len(m.rows)
}

// NumRows returns the number of rows.
func (m *MappedTable) NumRows() int {
	return len(m.rows)
}

// Width returns the number of columns.
func (m *MappedTable) Width() int {
	return m.cols.Len()
}

// CellValue decodes and parses the cell at row and col from the
// backing buffer. With a schema the cell is parsed as the column's
// declared type and a parse failure returns an error wrapping
// ErrParse, without one the cell type is inferred and parsing
// cannot fail.
func (m *MappedTable) CellValue(row, col int) (Value, error) {
	if m.closed.Load() {
		return Value{}, fmt.Errorf("cannot read from mapped table: %w", os.ErrClosed)
	}
	if row < 0 || row >= len(m.rows) {
		return Value{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, row, len(m.rows))
	}
	if col < 0 || col >= m.cols.Len() {
		return Value{}, fmt.Errorf("%w: column index %d is beyond table width %d", ErrIndexOutOfBounds, col, m.cols.Len())
	}
	span := m.rows[row][col]
	raw := m.decode(m.data[span.Start:span.End], span.Escaped)
	if m.schema == nil {
		return ParseValue(raw), nil
	}
	val, err := ParseValueWithType(raw, m.schema[col])
	if err != nil {
		return Value{}, fmt.Errorf("row %d, column %q: %w", row, m.cols.Name(col), err)
	}
	return val, nil
}

// Row returns a view of the row at index.
func (m *MappedTable) Row(index int) (Row, error) {
	if index < 0 || index >= len(m.rows) {
		return Row{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, index, len(m.rows))
	}
	return Row{source: m, cols: m.cols, index: index}, nil
}

// Iter returns an iterator over the table's rows
// in ascending index order.
func (m *MappedTable) Iter() *RowIter {
	return newRowIter(m)
}

func (m *MappedTable) scan(fn func(data View) error) error {
	return fn(m)
}

// AppendRow fails with an error wrapping ErrUnsupportedMutation,
// the mapped layout cannot grow.
func (m *MappedTable) AppendRow(values ...Value) error {
	return fmt.Errorf("%w: cannot append rows to a memory-mapped table", ErrUnsupportedMutation)
}

// AppendTable fails with an error wrapping ErrUnsupportedMutation.
func (m *MappedTable) AppendTable(source View) error {
	return fmt.Errorf("%w: cannot append rows to a memory-mapped table", ErrUnsupportedMutation)
}

// AddColumn fails with an error wrapping ErrUnsupportedMutation.
func (m *MappedTable) AddColumn(name string, value Value) error {
	return fmt.Errorf("%w: cannot add columns to a memory-mapped table", ErrUnsupportedMutation)
}

// AddColumnWith fails with an error wrapping ErrUnsupportedMutation.
func (m *MappedTable) AddColumnWith(name string, gen func() Value) error {
	return fmt.Errorf("%w: cannot add columns to a memory-mapped table", ErrUnsupportedMutation)
}

// RenameColumn fails with an error wrapping ErrUnsupportedMutation.
func (m *MappedTable) RenameColumn(oldName, newName string) error {
	return fmt.Errorf("%w: cannot rename columns of a memory-mapped table", ErrUnsupportedMutation)
}

// SetValue fails with an error wrapping ErrUnsupportedMutation,
// the backing bytes are never written.
func (m *MappedTable) SetValue(row int, column string, value Value) error {
	return fmt.Errorf("%w: cannot set values in a memory-mapped table", ErrUnsupportedMutation)
}

// GroupBy partitions the table's rows like Table.GroupBy,
// decoding cell values from the mapped buffer.
func (m *MappedTable) GroupBy(column string) (map[Value]*TableSlice, error) {
	return groupRows(m, m.cols, nil, column)
}

// Unique returns the set of distinct values at column.
func (m *MappedTable) Unique(column string) (map[Value]struct{}, error) {
	return uniqueValues(m, m.cols, nil, column)
}

// Find returns a slice of the rows whose value at column
// equals value, preserving row order.
func (m *MappedTable) Find(column string, value Value) (*TableSlice, error) {
	return findEqual(m, m.cols, nil, column, value)
}

// FindBy returns a slice of the rows the predicate holds for,
// preserving row order. The predicate is invoked sequentially.
func (m *MappedTable) FindBy(predicate func(Row) bool) (*TableSlice, error) {
	return findMatching(m, m.cols, nil, predicate)
}

// Sort returns a slice of all rows sorted by the passed columns.
// The sort is not guaranteed to be stable, see SortStable.
func (m *MappedTable) Sort(columns ...string) (*TableSlice, error) {
	return sortIndices(m, m.cols, nil, columns, false)
}

// SortStable is like Sort but preserves the original relative order
// of rows with equal sort keys.
func (m *MappedTable) SortStable(columns ...string) (*TableSlice, error) {
	return sortIndices(m, m.cols, nil, columns, true)
}

// SortBy returns a slice of all rows sorted by a comparator.
func (m *MappedTable) SortBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(m, m.cols, nil, compare, false)
}

// SortStableBy is like SortBy but preserves the original relative
// order of rows comparing equal.
func (m *MappedTable) SortStableBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(m, m.cols, nil, compare, true)
}

// SplitRowsAt partitions the table's rows into two slices
// [0,mid) and [mid,Len()) sharing this table's storage.
func (m *MappedTable) SplitRowsAt(mid int) (*TableSlice, *TableSlice, error) {
	return splitIndices(m, m.cols, nil, mid)
}

// Close releases the backing buffer by closing the closer passed at
// construction, typically a memory mapping. Close is idempotent.
// The caller must ensure no reads are in flight or attempted after
// Close, the mapped bytes become invalid.
func (m *MappedTable) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
