package csvtable

import (
	"fmt"
	"time"

	"github.com/domonda/go-types/charset"
	"go.uber.org/zap"

	"github.com/domonda/go-memtable"
	"github.com/domonda/go-memtable/mmap"
)

// MapFile memory-maps a CSV file and returns it as a read-only
// memtable.MappedTable that parses cell values lazily on access.
//
// The file is scanned once to locate record and field boundaries,
// cell values are not materialized. The first record provides the
// column names, an optional schema applies to cell parsing like in
// ParseTable. A "sep=X" header line declares the separator, otherwise
// the separator is counted as the most frequent of comma, semicolon,
// and tab.
//
// The file content must be UTF-8 compatible since transcoding would
// invalidate the byte offsets of the mapped field spans. A leading
// UTF-8 byte order mark is skipped. Closing the returned table unmaps
// the file.
func MapFile(path string, schema ...memtable.ValueType) (*memtable.MappedTable, error) {
	start := time.Now()

	mapping, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = mapping.AdviseSequential()

	data := mapping.Data()
	if len(data) >= 2 && (data[0] == 0xFE && data[1] == 0xFF || data[0] == 0xFF && data[1] == 0xFE) {
		_ = mapping.Close()
		return nil, fmt.Errorf("cannot memory-map UTF-16 encoded CSV file %s", path)
	}
	data = charset.TrimBOM(data, charset.BOMUTF8)

	separator := ""
	if line, rest := firstLine(data); len(line) > 0 {
		if separator = parseSepHeaderLine(line); separator != "" {
			data = rest
		}
	}
	if separator == "" {
		separator = sniffSeparator(data)
	}
	if separator == "" {
		_ = mapping.Close()
		return nil, fmt.Errorf("CSV file %s has no records, a header record is required", path)
	}

	records, err := ScanRecords(data, separator[0])
	if err != nil {
		_ = mapping.Close()
		return nil, fmt.Errorf("CSV file %s: %w", path, err)
	}
	if len(records) == 0 {
		_ = mapping.Close()
		return nil, fmt.Errorf("CSV file %s has no records, a header record is required", path)
	}

	columns := make([]string, len(records[0]))
	for i, span := range records[0] {
		columns[i] = DecodeField(data[span.Start:span.End], span.Escaped)
	}

	table, err := memtable.NewMappedTable(columns, data, records[1:], schema, DecodeField, mapping)
	if err != nil {
		_ = mapping.Close()
		return nil, err
	}

	memtable.Logger().Debug("Memory-mapped CSV file as table",
		zap.String("file", path),
		zap.Int("size", mapping.Size()),
		zap.String("separator", separator),
		zap.Int("numRows", table.Len()),
		zap.Int("numColumns", table.Width()),
		zap.Duration("duration", time.Since(start)),
	)
	return table, nil
}
