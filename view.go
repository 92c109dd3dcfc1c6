package memtable

// View is the read contract shared by Table, MappedTable and TableSlice.
// Query operations are written once against this interface
// and work identically over owned, mapped and sliced row storage.
type View interface {
	// Columns returns the column index of the view.
	Columns() *Columns

	// NumRows returns the number of rows of the view.
	NumRows() int

	// CellValue returns the value of the cell at row and col.
	// Owned backends return the stored value,
	// mapped backends parse the cell from the backing bytes on demand.
	// Returns an error wrapping ErrIndexOutOfBounds for invalid indices
	// or ErrParse when a mapped cell cannot be parsed under its schema.
	CellValue(row, col int) (Value, error)
}

// rowBackend is the root storage contract behind Table and MappedTable.
//
// scan calls fn with a view of the backend's current row data that is
// consistent for the duration of the call: Table holds its read lock
// until fn returns, MappedTable is immutable and passes itself.
// The view passed to fn performs no further synchronization
// and must not be retained after fn returns.
type rowBackend interface {
	View

	scan(fn func(data View) error) error
}
