package memtable

import (
	"context"
	"unicode/utf8"
)

// ViewStrings renders every cell of the view into its display string.
// With addHeaderRow the first result row holds the column names.
func ViewStrings(ctx context.Context, view View, addHeaderRow bool) (rows [][]string, err error) {
	numCols := view.Columns().Len()
	numRows := view.NumRows()

	rows = make([][]string, 0, numRows+1)
	if addHeaderRow {
		rows = append(rows, view.Columns().Names())
	}

	for row := 0; row < numRows; row++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rowStrs := make([]string, numCols)
		for col := 0; col < numCols; col++ {
			val, err := view.CellValue(row, col)
			if err != nil {
				return nil, err
			}
			rowStrs[col] = val.String()
		}
		rows = append(rows, rowStrs)
	}

	return rows, nil
}

// RemoveEmptyStringRows returns rows without the rows
// that have no cells or only empty string cells.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	result := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				result = append(result, row)
				break
			}
		}
	}
	return result
}

// RemoveEmptyStringColumns removes the columns that hold only empty
// string cells by shifting the remaining cells left within each row,
// and returns the remaining column count.
// The rows are modified in place and may keep different lengths,
// a cell beyond a row's length counts as empty.
func RemoveEmptyStringColumns(rows [][]string) int {
	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	kept := make([]int, 0, numCols)
	for col := 0; col < numCols; col++ {
		for _, row := range rows {
			if col < len(row) && row[col] != "" {
				kept = append(kept, col)
				break
			}
		}
	}
	if len(kept) == numCols {
		return numCols
	}
	for i, row := range rows {
		packed := row[:0]
		for _, col := range kept {
			if col < len(row) {
				packed = append(packed, row[col])
			}
		}
		rows[i] = packed
	}
	return len(kept)
}

// StringColumnWidths returns the column widths of the passed
// table as count of UTF-8 runes.
// A negative numCols uses the longest row's length.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			if rowCols := len(row); rowCols > numCols {
				numCols = rowCols
			}
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for col, str := range row {
			if col >= numCols {
				break
			}
			if numRunes := utf8.RuneCountInString(str); numRunes > colWidths[col] {
				colWidths[col] = numRunes
			}
		}
	}
	return colWidths
}
