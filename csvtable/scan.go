package csvtable

import (
	"fmt"
	"strings"

	"github.com/domonda/go-memtable"
)

// ScanRecords tokenizes CSV data into per-record field byte spans
// without copying or unescaping any field bytes.
//
// Spans reference the passed data slice: quoted fields span the bytes
// inside the quotes and are marked as escaped when they contain
// doubled quotes. Records are terminated by "\n", "\r\n", or "\n\r"
// line breaks, quoted fields may contain separators and line breaks.
// Blank lines are skipped.
func ScanRecords(data []byte, separator byte) ([][]memtable.FieldSpan, error) {
	var (
		records [][]memtable.FieldSpan
		fields  []memtable.FieldSpan
	)
	i := 0
	for i < len(data) {
		if n := lineBreak(data, i); n > 0 {
			i += n
			if fields != nil {
				records = append(records, fields)
				fields = nil
			}
			continue
		}

		span, rest, err := scanField(data, i, separator)
		if err != nil {
			return nil, fmt.Errorf("CSV record %d: %w", len(records), err)
		}
		fields = append(fields, span)
		i = rest

		// A separator after the field means another field follows,
		// also when the record ends right after the separator.
		if i < len(data) && data[i] == separator {
			i++
			if i == len(data) || lineBreak(data, i) > 0 {
				fields = append(fields, memtable.FieldSpan{Start: i, End: i})
			}
		}
	}
	if fields != nil {
		records = append(records, fields)
	}
	return records, nil
}

// DecodeField returns the string content of a field span scanned by
// ScanRecords, collapsing doubled quotes when the span is marked as
// escaped. It satisfies memtable.FieldDecoder.
func DecodeField(data []byte, escaped bool) string {
	if !escaped {
		return string(data)
	}
	return strings.ReplaceAll(string(data), `""`, `"`)
}

// lineBreak returns the length of the line break at offset i, or zero.
// Recognized line breaks are "\n", "\r\n", and "\n\r".
func lineBreak(data []byte, i int) int {
	switch {
	case data[i] == '\n':
		if i+1 < len(data) && data[i+1] == '\r' {
			return 2
		}
		return 1
	case data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n':
		return 2
	default:
		return 0
	}
}

// scanField scans a single field starting at offset i and returns its
// span and the offset of the byte after the field. The terminating
// separator or line break is not consumed.
func scanField(data []byte, i int, separator byte) (span memtable.FieldSpan, rest int, err error) {
	if data[i] == '"' {
		return scanQuotedField(data, i, separator)
	}
	start := i
	escaped := false
	for i < len(data) && data[i] != separator && lineBreak(data, i) == 0 {
		// Doubled quotes in unquoted fields are unescaped like in quoted ones,
		// single quotes are field internal quoting and need no special handling
		if data[i] == '"' && i+1 < len(data) && data[i+1] == '"' {
			escaped = true
			i += 2
			continue
		}
		i++
	}
	return memtable.FieldSpan{Start: start, End: i, Escaped: escaped}, i, nil
}

func scanQuotedField(data []byte, i int, separator byte) (span memtable.FieldSpan, rest int, err error) {
	openQuote := i
	start := i + 1
	escaped := false
	i++
	for i < len(data) {
		if data[i] != '"' {
			i++
			continue
		}
		if i+1 < len(data) && data[i+1] == '"' {
			escaped = true
			i += 2
			continue
		}
		end := i
		i++
		if i < len(data) && data[i] != separator && lineBreak(data, i) == 0 {
			return memtable.FieldSpan{}, i, fmt.Errorf("can't handle byte %q after quoted field at offset %d", data[i], i)
		}
		return memtable.FieldSpan{Start: start, End: end, Escaped: escaped}, i, nil
	}
	return memtable.FieldSpan{}, i, fmt.Errorf("unterminated quoted field at offset %d", openQuote)
}
