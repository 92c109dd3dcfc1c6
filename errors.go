package memtable

import "errors"

// Sentinel errors returned by table operations.
// Wrap them with fmt.Errorf("%w: ...", err) to add context
// and test with errors.Is.
var (
	// ErrColumnNotFound is returned when a column name
	// does not exist in a table or slice.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn is returned when adding or renaming
	// a column to a name that already exists.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrRowWidthMismatch is returned when a row's value count
	// does not match the table's column count.
	ErrRowWidthMismatch = errors.New("row width mismatch")

	// ErrIndexOutOfBounds is returned for row or column indices
	// beyond the valid range.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrParse is returned when a string cannot be parsed
	// as the requested value type.
	ErrParse = errors.New("parse error")

	// ErrSchemaLengthMismatch is returned when a column type schema
	// does not have exactly one type per column.
	ErrSchemaLengthMismatch = errors.New("schema length mismatch")

	// ErrUnsupportedMutation is returned by read-only table backends
	// for operations that would modify data.
	ErrUnsupportedMutation = errors.New("unsupported mutation")
)
