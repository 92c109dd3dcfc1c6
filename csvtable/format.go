// Package csvtable reads and writes CSV data as memtable tables.
//
// Parsing supports automatic detection of the character encoding,
// the field separator and the line ending style, and handles
// RFC 4180 quoting including multi-line fields and escaped quotes.
// MapFile parses a CSV file in place via a read-only memory mapping
// without materializing cell values up front.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the encoding and structure of CSV data.
type Format struct {
	// Encoding names the character encoding of the CSV data,
	// for example "UTF-8", "UTF-16LE", "ISO 8859-1", "Windows 1252", "Macintosh".
	Encoding string `json:"encoding"`

	// Separator is the field separator, it must be a single character.
	Separator string `json:"separator"`

	// Newline is the line ending, one of "\n", "\r\n", "\n\r".
	Newline string `json:"newline"`
}

// NewFormat returns a Format with the passed separator,
// UTF-8 encoding, and "\r\n" line endings.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error in case of an invalid Format.
// It can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the automatic CSV format detection.
type FormatDetectionConfig struct {
	// Encodings to try in priority order.
	Encodings []string `json:"encodings"`

	// EncodingTests are strings with characters that have different
	// byte representations across the tested encodings.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// with defaults suitable for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä",
			"Ä",
			"ö",
			"Ö",
			"ü",
			"Ü",
			"ß",
			"§",
			"€",
			"д",
			"Д",
			"ъ",
			"Ъ",
			"б",
			"Б",
			"л",
			"Л",
			"и",
			"И",
			"ж",
		},
	}
}

// EscapeQuotes escapes double quotes in a CSV field value
// by doubling them as defined by RFC 4180.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
