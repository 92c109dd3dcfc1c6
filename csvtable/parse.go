package csvtable

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"

	"github.com/domonda/go-memtable"
)

// ParseDetectFormat parses CSV data with automatic format detection
// and returns the field strings of all non-blank records together
// with the detected format.
//
// The encoding is detected by testing the config's encodings against
// its encoding test strings, "\r\n" line endings are preferred over
// "\n" when present, and the separator is taken from a "sep=X" header
// line or else counted as the most frequent of comma, semicolon, and
// tab. A nil config selects NewDefaultFormatDetectionConfig().
func ParseDetectFormat(csv []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}

	format, body, err := detectFormat(csv, config)
	if err != nil {
		return nil, format, err
	}
	if format.Separator == "" {
		// No separator means no non-blank content
		return nil, format, nil
	}

	records, err := ScanRecords(body, format.Separator[0])
	if err != nil {
		return nil, format, err
	}
	return decodeRecords(body, records), format, nil
}

// ParseWithFormat parses CSV data using an explicitly specified format.
//
// The data is decoded from format.Encoding to UTF-8 before parsing,
// with a leading byte order mark trimmed. A "sep=X" header line is
// consumed and must declare format.Separator.
func ParseWithFormat(csv []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}

	if format.Encoding == "UTF-8" {
		csv = charset.TrimBOM(csv, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		csv, err = enc.Decode(csv)
		if err != nil {
			return nil, err
		}
	}

	csv = sanitizeUTF8(csv)

	if line, rest := firstLine(csv); len(line) > 0 {
		if headerSep := parseSepHeaderLine(line); headerSep != "" {
			if headerSep != format.Separator {
				return nil, fmt.Errorf("separator %q in header line is different from format.Separator %q", headerSep, format.Separator)
			}
			csv = rest
		}
	}

	records, err := ScanRecords(csv, format.Separator[0])
	if err != nil {
		return nil, err
	}
	return decodeRecords(csv, records), nil
}

// detectFormat detects the encoding, line ending style, and separator
// of the passed CSV data and returns the format together with the
// decoded data body ready for scanning, with a "sep=X" header line
// already consumed.
func detectFormat(csv []byte, config *FormatDetectionConfig) (format *Format, body []byte, err error) {
	if config == nil {
		return nil, nil, errors.New("FormatDetectionConfig must not be nil")
	}

	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}

	csv, format.Encoding, err = charset.AutoDecode(csv, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}

	csv = sanitizeUTF8(csv)

	// If there are \r\n line endings then take those
	// because that's the standard
	if bytes.Contains(csv, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	if line, rest := firstLine(csv); len(line) > 0 {
		if format.Separator = parseSepHeaderLine(line); format.Separator != "" {
			return format, rest, nil
		}
	}

	format.Separator = sniffSeparator(csv)
	if format.Separator == "" {
		return format, nil, nil
	}
	return format, csv, nil
}

// sniffSeparator counts comma, semicolon, and tab occurrences over
// all non-blank lines and returns the most frequent one, with comma
// winning ties. It returns an empty string when there are no
// non-blank lines.
func sniffSeparator(csv []byte) string {
	var commas, semicolons, tabs, numNonBlankLines int
	for _, line := range bytes.Split(csv, []byte{'\n'}) {
		line = bytes.Trim(line, "\r\n")
		if len(line) == 0 {
			continue
		}
		numNonBlankLines++
		commas += bytes.Count(line, []byte{','})
		semicolons += bytes.Count(line, []byte{';'})
		tabs += bytes.Count(line, []byte{'\t'})
	}
	if numNonBlankLines == 0 {
		return ""
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		return ";"
	case tabs > commas && tabs > semicolons:
		return "\t"
	default:
		return ","
	}
}

// parseSepHeaderLine parses "sep=X" or "SEP=X" separator declaration
// header lines, optionally enclosed in double quotes, as written by
// Microsoft Excel. It returns the declared separator or an empty
// string if the line is not a separator declaration.
func parseSepHeaderLine(line []byte) (sep string) {
	if len(line) < 5 {
		return ""
	}
	if line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return ""
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return ""
	}
	return string(line[4:5])
}

// firstLine splits data at the first line break and returns the line
// without the break together with the remaining data after it.
func firstLine(data []byte) (line, rest []byte) {
	i := bytes.IndexByte(data, '\n')
	if i == -1 {
		return data, nil
	}
	line = bytes.TrimSuffix(data[:i], []byte{'\r'})
	rest = bytes.TrimPrefix(data[i+1:], []byte{'\r'})
	return line, rest
}

// decodeRecords materializes scanned field spans as strings.
func decodeRecords(data []byte, records [][]memtable.FieldSpan) [][]string {
	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(record))
		for j, span := range record {
			row[j] = DecodeField(data[span.Start:span.End], span.Escaped)
		}
		rows[i] = row
	}
	return rows
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			//   is No-Break Space (NBSP)
			case '�', ' ':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
