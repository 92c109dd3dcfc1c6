package csvtable

import (
	"time"

	"github.com/ungerik/go-fs"
	"go.uber.org/zap"

	"github.com/domonda/go-memtable"
)

// ParseTable parses CSV data into a memtable.Table with automatic
// format detection.
//
// The first record provides the column names, every following record
// becomes a table row. Without a schema the cell values are inferred
// with memtable.ParseValue, with a schema every cell of column i is
// parsed as schema[i]. A nil configOrNil selects
// NewDefaultFormatDetectionConfig().
func ParseTable(csv []byte, configOrNil *FormatDetectionConfig, schema ...memtable.ValueType) (*memtable.Table, *Format, error) {
	start := time.Now()

	rows, format, err := ParseDetectFormat(csv, configOrNil)
	if err != nil {
		return nil, format, err
	}
	table, err := memtable.NewTableFromStrings(rows, schema...)
	if err != nil {
		return nil, format, err
	}

	memtable.Logger().Debug("Parsed CSV data as table",
		zap.String("encoding", format.Encoding),
		zap.String("separator", format.Separator),
		zap.Int("numRows", table.Len()),
		zap.Int("numColumns", table.Width()),
		zap.Duration("duration", time.Since(start)),
	)
	return table, format, nil
}

// ParseTableWithFormat parses CSV data with a known format into a
// memtable.Table. See ParseTable for how records map to the table.
func ParseTableWithFormat(csv []byte, format *Format, schema ...memtable.ValueType) (*memtable.Table, error) {
	rows, err := ParseWithFormat(csv, format)
	if err != nil {
		return nil, err
	}
	return memtable.NewTableFromStrings(rows, schema...)
}

// ReadFile reads a CSV file into a memtable.Table with automatic
// format detection. See ParseTable for how records map to the table.
func ReadFile(file fs.FileReader, schema ...memtable.ValueType) (*memtable.Table, *Format, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return ParseTable(data, nil, schema...)
}
