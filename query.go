package memtable

import (
	"fmt"
	"slices"
)

// The functions in this file implement the query operations shared by
// Table, MappedTable and TableSlice. They operate on the root backend,
// a Columns snapshot and an optional row-index list where a nil list
// stands for all rows of the backend in storage order.

func columnPosition(cols *Columns, column string) (int, error) {
	pos, ok := cols.Position(column)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return pos, nil
}

func rowCount(data View, indices []int) int {
	if indices != nil {
		return len(indices)
	}
	return data.NumRows()
}

func rootIndex(indices []int, i int) int {
	if indices != nil {
		return indices[i]
	}
	return i
}

// dataView presents an unsynchronized backend view in the row
// coordinates of the table or slice a query ran on.
// Rows bound to a dataView are handed to user callbacks
// and are only valid during the callback.
type dataView struct {
	data    View
	indices []int
	cols    *Columns
}

func (v dataView) Columns() *Columns { return v.cols }

func (v dataView) NumRows() int { return rowCount(v.data, v.indices) }

func (v dataView) CellValue(row, col int) (Value, error) {
	if v.indices != nil {
		if row < 0 || row >= len(v.indices) {
			return Value{}, fmt.Errorf("%w: index %d is beyond table length %d", ErrIndexOutOfBounds, row, len(v.indices))
		}
		row = v.indices[row]
	}
	return v.data.CellValue(row, col)
}

// groupRows partitions the rows by their value at column.
// Every group keeps the view's relative row order.
func groupRows(backend rowBackend, cols *Columns, indices []int, column string) (map[Value]*TableSlice, error) {
	pos, err := columnPosition(cols, column)
	if err != nil {
		return nil, err
	}
	var groups map[Value][]int
	err = backend.scan(func(data View) error {
		var scanErr error
		groups, scanErr = groupIndices(data, indices, pos)
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	result := make(map[Value]*TableSlice, len(groups))
	for val, rows := range groups {
		result[val] = newTableSlice(backend, cols, rows)
	}
	return result, nil
}

func groupIndices(data View, indices []int, pos int) (map[Value][]int, error) {
	n := rowCount(data, indices)
	if n < parallelMinRows {
		return groupIndexRange(data, indices, pos, 0, n)
	}
	partial, err := runChunked(n, func(start, end int) (map[Value][]int, error) {
		return groupIndexRange(data, indices, pos, start, end)
	})
	if err != nil {
		return nil, err
	}
	merged := make(map[Value][]int)
	for _, groups := range partial {
		for val, rows := range groups {
			merged[val] = append(merged[val], rows...)
		}
	}
	return merged, nil
}

func groupIndexRange(data View, indices []int, pos, start, end int) (map[Value][]int, error) {
	groups := make(map[Value][]int)
	for i := start; i < end; i++ {
		root := rootIndex(indices, i)
		val, err := data.CellValue(root, pos)
		if err != nil {
			return nil, err
		}
		groups[val] = append(groups[val], root)
	}
	return groups, nil
}

// uniqueValues collects the distinct values at column.
func uniqueValues(backend rowBackend, cols *Columns, indices []int, column string) (map[Value]struct{}, error) {
	pos, err := columnPosition(cols, column)
	if err != nil {
		return nil, err
	}
	unique := make(map[Value]struct{})
	err = backend.scan(func(data View) error {
		n := rowCount(data, indices)
		if n < parallelMinRows {
			return uniqueValueRange(data, indices, pos, 0, n, unique)
		}
		partial, err := runChunked(n, func(start, end int) (map[Value]struct{}, error) {
			set := make(map[Value]struct{})
			if err := uniqueValueRange(data, indices, pos, start, end, set); err != nil {
				return nil, err
			}
			return set, nil
		})
		if err != nil {
			return err
		}
		for _, set := range partial {
			for val := range set {
				unique[val] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unique, nil
}

func uniqueValueRange(data View, indices []int, pos, start, end int, set map[Value]struct{}) error {
	for i := start; i < end; i++ {
		val, err := data.CellValue(rootIndex(indices, i), pos)
		if err != nil {
			return err
		}
		set[val] = struct{}{}
	}
	return nil
}

// findEqual returns a slice of the rows whose value at column
// equals value, preserving relative row order.
func findEqual(backend rowBackend, cols *Columns, indices []int, column string, value Value) (*TableSlice, error) {
	pos, err := columnPosition(cols, column)
	if err != nil {
		return nil, err
	}
	var matches []int
	err = backend.scan(func(data View) error {
		n := rowCount(data, indices)
		if n < parallelMinRows {
			var scanErr error
			matches, scanErr = equalIndexRange(data, indices, pos, value, 0, n)
			return scanErr
		}
		partial, err := runChunked(n, func(start, end int) ([]int, error) {
			return equalIndexRange(data, indices, pos, value, start, end)
		})
		if err != nil {
			return err
		}
		for _, rows := range partial {
			matches = append(matches, rows...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newTableSlice(backend, cols, matches), nil
}

func equalIndexRange(data View, indices []int, pos int, value Value, start, end int) ([]int, error) {
	var matches []int
	for i := start; i < end; i++ {
		root := rootIndex(indices, i)
		val, err := data.CellValue(root, pos)
		if err != nil {
			return nil, err
		}
		if val == value {
			matches = append(matches, root)
		}
	}
	return matches, nil
}

// findMatching returns a slice of the rows the predicate holds for,
// preserving relative row order. The predicate is always invoked
// sequentially, row by row in view order.
func findMatching(backend rowBackend, cols *Columns, indices []int, predicate func(Row) bool) (*TableSlice, error) {
	var matches []int
	err := backend.scan(func(data View) error {
		view := dataView{data: data, indices: indices, cols: cols}
		n := rowCount(data, indices)
		for i := 0; i < n; i++ {
			if predicate(Row{source: view, cols: cols, index: i}) {
				matches = append(matches, rootIndex(indices, i))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newTableSlice(backend, cols, matches), nil
}

// sortIndices returns a slice sorted by the values of the passed
// columns, comparing lexicographically from the first column on.
// Sort keys are materialized once per row before sorting.
func sortIndices(backend rowBackend, cols *Columns, indices []int, columns []string, stable bool) (*TableSlice, error) {
	positions := make([]int, len(columns))
	for i, column := range columns {
		pos, err := columnPosition(cols, column)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
	}
	var order []int
	err := backend.scan(func(data View) error {
		n := rowCount(data, indices)
		keys := make([][]Value, n)
		for i := 0; i < n; i++ {
			key := make([]Value, len(positions))
			for k, pos := range positions {
				val, err := data.CellValue(rootIndex(indices, i), pos)
				if err != nil {
					return err
				}
				key[k] = val
			}
			keys[i] = key
		}
		order = sortedOrder(indices, n, stable, func(a, b int) int {
			for k := range keys[a] {
				if c := keys[a][k].Compare(keys[b][k]); c != 0 {
					return c
				}
			}
			return 0
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newTableSlice(backend, cols, order), nil
}

// sortIndicesBy returns a slice sorted by a row comparator.
// The comparator is always invoked sequentially.
func sortIndicesBy(backend rowBackend, cols *Columns, indices []int, compare func(a, b Row) int, stable bool) (*TableSlice, error) {
	var order []int
	err := backend.scan(func(data View) error {
		view := dataView{data: data, indices: indices, cols: cols}
		n := rowCount(data, indices)
		order = sortedOrder(indices, n, stable, func(a, b int) int {
			return compare(
				Row{source: view, cols: cols, index: a},
				Row{source: view, cols: cols, index: b},
			)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newTableSlice(backend, cols, order), nil
}

// sortedOrder sorts the view-local positions [0,n) with the passed
// comparison and translates them to root indices.
// Positions are sorted instead of root indices so that the stable
// variant preserves the view's relative order among ties.
func sortedOrder(indices []int, n int, stable bool, compare func(a, b int) int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	if stable {
		slices.SortStableFunc(positions, compare)
	} else {
		slices.SortFunc(positions, compare)
	}
	order := make([]int, n)
	for i, p := range positions {
		order[i] = rootIndex(indices, p)
	}
	return order
}

// splitIndices partitions the view's rows into [0,mid) and [mid,n).
// mid == n is valid and yields an empty second slice,
// mid beyond n fails.
func splitIndices(backend rowBackend, cols *Columns, indices []int, mid int) (*TableSlice, *TableSlice, error) {
	var first, second []int
	err := backend.scan(func(data View) error {
		n := rowCount(data, indices)
		if mid < 0 || mid > n {
			return fmt.Errorf("%w: midpoint %d is beyond table length %d", ErrIndexOutOfBounds, mid, n)
		}
		first = make([]int, mid)
		second = make([]int, n-mid)
		for i := 0; i < mid; i++ {
			first[i] = rootIndex(indices, i)
		}
		for i := mid; i < n; i++ {
			second[i-mid] = rootIndex(indices, i)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return newTableSlice(backend, cols, first), newTableSlice(backend, cols, second), nil
}
