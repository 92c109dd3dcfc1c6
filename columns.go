package memtable

import (
	"fmt"
	"slices"
)

// Columns is an ordered, immutable list of unique column names
// with O(1) name to position lookup.
// A table and all slices derived from it share Columns instances,
// column mutations on a table replace the instance
// so existing slices keep the state they were created with.
type Columns struct {
	names []string
	index map[string]int
}

// NewColumns returns Columns for the passed names,
// or an error wrapping ErrDuplicateColumn
// when a name occurs more than once.
func NewColumns(names ...string) (*Columns, error) {
	c := &Columns{
		names: slices.Clone(names),
		index: make(map[string]int, len(names)),
	}
	for i, name := range c.names {
		if _, exists := c.index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		c.index[name] = i
	}
	return c, nil
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	return len(c.names)
}

// Names returns the column names in order as a new slice.
func (c *Columns) Names() []string {
	return slices.Clone(c.names)
}

// Name returns the name of the column at index.
func (c *Columns) Name(index int) string {
	return c.names[index]
}

// Position returns the index of the named column
// and whether the column exists.
func (c *Columns) Position(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Contains reports whether a column with the passed name exists.
func (c *Columns) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// withAppended returns new Columns with name appended.
func (c *Columns) withAppended(name string) (*Columns, error) {
	if _, exists := c.index[name]; exists {
		return nil, fmt.Errorf("%w: %q already exists", ErrDuplicateColumn, name)
	}
	return NewColumns(append(c.Names(), name)...)
}

// withRenamed returns new Columns with oldName replaced by newName.
func (c *Columns) withRenamed(oldName, newName string) (*Columns, error) {
	pos, ok := c.index[oldName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, oldName)
	}
	if _, exists := c.index[newName]; exists && newName != oldName {
		return nil, fmt.Errorf("%w: %q already exists", ErrDuplicateColumn, newName)
	}
	names := c.Names()
	names[pos] = newName
	return NewColumns(names...)
}
