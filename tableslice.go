package memtable

import "fmt"

// TableSlice is an immutable view of a subset of a backend's rows,
// holding an ordered list of row indices in root backend coordinates
// and the column index snapshot from its creation.
// Slices of slices reference the root backend directly.
//
// A slice keeps its backend reachable, query operations on it
// are as safe for concurrent use as the backend itself.
// Re-filtering or re-sorting returns a new slice,
// a slice's own row set never changes.
type TableSlice struct {
	root rowBackend
	cols *Columns
	rows []int
}

// newTableSlice normalizes nil rows to an empty list:
// inside the query engine a nil index list stands for all rows.
func newTableSlice(root rowBackend, cols *Columns, rows []int) *TableSlice {
	if rows == nil {
		rows = []int{}
	}
	return &TableSlice{root: root, cols: cols, rows: rows}
}

// Columns returns the column index the slice was created with.
func (s *TableSlice) Columns() *Columns {
	return s.cols
}

// Len returns the number of rows in the slice.
func (s *TableSlice) Len() int {
	return len(s.rows)
}

// NumRows returns the number of rows in the slice.
func (s *TableSlice) NumRows() int {
	return len(s.rows)
}

// Width returns the number of columns.
func (s *TableSlice) Width() int {
	return s.cols.Len()
}

// RowIndices returns the slice's row indices
// in root backend coordinates, as a new slice.
func (s *TableSlice) RowIndices() []int {
	indices := make([]int, len(s.rows))
	copy(indices, s.rows)
	return indices
}

// CellValue returns the value of the cell at the slice-local row
// index and col, translated to the backend's coordinates.
func (s *TableSlice) CellValue(row, col int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, row, len(s.rows))
	}
	return s.root.CellValue(s.rows[row], col)
}

// Row returns a view of the slice-local row at index.
func (s *TableSlice) Row(index int) (Row, error) {
	if index < 0 || index >= len(s.rows) {
		return Row{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, index, len(s.rows))
	}
	return Row{source: s, cols: s.cols, index: index}, nil
}

// Iter returns an iterator over the slice's rows in slice order.
func (s *TableSlice) Iter() *RowIter {
	return newRowIter(s)
}

// GroupBy partitions the slice's rows like Table.GroupBy,
// the groups reference the same root backend.
func (s *TableSlice) GroupBy(column string) (map[Value]*TableSlice, error) {
	return groupRows(s.root, s.cols, s.rows, column)
}

// Unique returns the set of distinct values at column
// among the slice's rows.
func (s *TableSlice) Unique(column string) (map[Value]struct{}, error) {
	return uniqueValues(s.root, s.cols, s.rows, column)
}

// Find returns a new slice of the slice's rows whose value at column
// equals value, preserving the slice's row order.
func (s *TableSlice) Find(column string, value Value) (*TableSlice, error) {
	return findEqual(s.root, s.cols, s.rows, column, value)
}

// FindBy returns a new slice of the slice's rows the predicate holds
// for, preserving the slice's row order.
func (s *TableSlice) FindBy(predicate func(Row) bool) (*TableSlice, error) {
	return findMatching(s.root, s.cols, s.rows, predicate)
}

// Sort returns a new slice of the slice's rows sorted by the passed
// columns. Neither the parent backend nor any sibling slice
// is reordered. The sort is not guaranteed to be stable.
func (s *TableSlice) Sort(columns ...string) (*TableSlice, error) {
	return sortIndices(s.root, s.cols, s.rows, columns, false)
}

// SortStable is like Sort but preserves the slice's relative order
// of rows with equal sort keys.
func (s *TableSlice) SortStable(columns ...string) (*TableSlice, error) {
	return sortIndices(s.root, s.cols, s.rows, columns, true)
}

// SortBy returns a new slice of the slice's rows sorted by a
// comparator that reports the order of two rows like cmp.Compare.
func (s *TableSlice) SortBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(s.root, s.cols, s.rows, compare, false)
}

// SortStableBy is like SortBy but preserves the slice's relative
// order of rows comparing equal.
func (s *TableSlice) SortStableBy(compare func(a, b Row) int) (*TableSlice, error) {
	return sortIndicesBy(s.root, s.cols, s.rows, compare, true)
}

// SplitRowsAt partitions the slice's own row list into two new
// slices [0,mid) and [mid,Len()) over the same root backend.
// mid == Len() is valid and yields an empty second slice.
func (s *TableSlice) SplitRowsAt(mid int) (*TableSlice, *TableSlice, error) {
	return splitIndices(s.root, s.cols, s.rows, mid)
}
