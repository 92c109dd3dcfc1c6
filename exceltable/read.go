// Package exceltable reads Excel workbooks (.xlsx, .xlsm, .xltm,
// .xltx) into memtable tables using the excelize library.
//
// Empty rows and columns are removed from every sheet, then the first
// remaining row provides the column names and every following row
// becomes a table row, with cell values inferred by memtable.ParseValue
// or parsed by an optional schema.
package exceltable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/domonda/go-memtable"
)

// Sheet pairs a workbook sheet name with the table read from it.
type Sheet struct {
	Name  string
	Table *memtable.Table
}

// Read reads every non-empty sheet of the workbook in reader,
// in workbook sheet order.
// With rawCells the stored cell values are used verbatim,
// otherwise cell number formats are applied first.
func Read(reader io.Reader, rawCells bool) (sheets []Sheet, err error) {
	start := time.Now()

	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for _, name := range f.GetSheetList() {
		table, err := readSheet(f, name, rawCells)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, Sheet{Name: name, Table: table})
	}

	memtable.Logger().Debug("Read Excel workbook as tables",
		zap.Int("numSheets", len(sheets)),
		zap.Duration("duration", time.Since(start)),
	)
	return sheets, nil
}

// ReadFirstSheet reads the first sheet of the workbook in reader.
// An optional schema directs cell parsing like in
// memtable.NewTableFromStrings.
func ReadFirstSheet(reader io.Reader, rawCells bool, schema ...memtable.ValueType) (table *memtable.Table, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
	}
	return readSheet(f, sheet, rawCells, schema...)
}

// ReadFile reads every non-empty sheet of the workbook file,
// see Read.
func ReadFile(file fs.FileReader, rawCells bool) ([]Sheet, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), rawCells)
}

// ReadFileFirstSheet reads the first sheet of the workbook file,
// see ReadFirstSheet.
func ReadFileFirstSheet(file fs.FileReader, rawCells bool, schema ...memtable.ValueType) (*memtable.Table, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	return ReadFirstSheet(bytes.NewReader(data), rawCells, schema...)
}

func readSheet(f *excelize.File, sheet string, rawCells bool, schema ...memtable.ValueType) (*memtable.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: rawCells})
	if err != nil {
		return nil, err
	}
	rows = memtable.RemoveEmptyStringRows(rows)
	numCols := memtable.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}
	for i, row := range rows {
		if len(row) < numCols {
			rows[i] = append(row, make([]string, numCols-len(row))...)
		}
	}
	// Name header cells the sheet left blank like spreadsheet columns
	for col, name := range rows[0] {
		if name != "" {
			continue
		}
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		rows[0][col] = letter
	}
	table, err := memtable.NewTableFromStrings(rows, schema...)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return table, nil
}
