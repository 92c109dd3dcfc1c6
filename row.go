package memtable

import "fmt"

// Row is an ephemeral view of a single row,
// synthesizing cell values on demand without copying the table.
// A Row is valid as long as the view that produced it.
// Rows passed to predicate or comparator callbacks
// are only valid for the duration of the call.
type Row struct {
	source View
	cols   *Columns
	index  int
}

// Index returns the row index within the view that produced the Row.
func (r Row) Index() int {
	return r.index
}

// Columns returns the column index of the row.
func (r Row) Columns() *Columns {
	return r.cols
}

// Width returns the number of cells in the row.
func (r Row) Width() int {
	return r.cols.Len()
}

// Value returns the value of the named column's cell,
// or an error wrapping ErrColumnNotFound.
func (r Row) Value(column string) (Value, error) {
	pos, ok := r.cols.Position(column)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return r.source.CellValue(r.index, pos)
}

// MustValue returns the value of the named column's cell
// or panics when the column does not exist
// or the cell cannot be read.
func (r Row) MustValue(column string) Value {
	val, err := r.Value(column)
	if err != nil {
		panic(err)
	}
	return val
}

// ValueAt returns the value of the cell at the passed column index.
func (r Row) ValueAt(index int) (Value, error) {
	if index < 0 || index >= r.cols.Len() {
		return Value{}, fmt.Errorf("%w: index %d is greater than row width %d", ErrIndexOutOfBounds, index, r.cols.Len())
	}
	return r.source.CellValue(r.index, index)
}

// Values returns all cell values of the row in column order.
func (r Row) Values() ([]Value, error) {
	values := make([]Value, r.cols.Len())
	for col := range values {
		val, err := r.source.CellValue(r.index, col)
		if err != nil {
			return nil, err
		}
		values[col] = val
	}
	return values, nil
}

// RowIter iterates the rows of a View in ascending index order.
//
//	iter := table.Iter()
//	for row, ok := iter.Next(); ok; row, ok = iter.Next() {
//		...
//	}
type RowIter struct {
	view View
	cols *Columns
	next int
}

func newRowIter(view View) *RowIter {
	return &RowIter{view: view, cols: view.Columns()}
}

// Next returns the next row and true,
// or the zero Row and false when the iterator is exhausted.
func (it *RowIter) Next() (Row, bool) {
	if it.next >= it.view.NumRows() {
		return Row{}, false
	}
	row := Row{source: it.view, cols: it.cols, index: it.next}
	it.next++
	return row, true
}
