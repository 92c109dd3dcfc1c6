package csvtable

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ungerik/go-fs"

	"github.com/domonda/go-memtable"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes memtable views as CSV.
//
// A zero Writer is not valid, use NewWriter and then derive
// configured variants with the With* methods which return modified
// clones without changing the receiver.
type Writer struct {
	padding          Padding
	headerRow        bool
	sepHeaderRow     bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	emptyValue       string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

// NewWriter returns a Writer with comma delimiter, "\r\n" line
// endings, RFC 4180 quote escaping, and a header row.
func NewWriter() *Writer {
	return &Writer{
		padding:          NoPadding,
		headerRow:        true,
		sepHeaderRow:     false,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		escapeQuotes:     `""`,
		emptyValue:       "",
		delimiter:        ',',
		newLine:          "\r\n",
		encoder:          nil,
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteView writes the view formatted as CSV to dest.
// Cells are written in their display form, Empty cells as the
// writer's empty value which defaults to an empty field.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view memtable.View) error {
	if w.padding != NoPadding {
		return w.writeViewPadded(ctx, dest, view)
	}

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	if w.sepHeaderRow {
		w.writeSepHeaderRow(rowBuf)
		err := w.flushRow(dest, rowBuf)
		if err != nil {
			return err
		}
	}
	if w.headerRow {
		w.writeHeaderRow(rowBuf, view.Columns())
		err := w.flushRow(dest, rowBuf)
		if err != nil {
			return err
		}
	}
	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		err := w.writeRow(ctx, rowBuf, view, row)
		if err != nil {
			return err
		}
		err = w.flushRow(dest, rowBuf)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the view formatted as CSV to a file.
func (w *Writer) WriteFile(ctx context.Context, file fs.File, view memtable.View) error {
	var buf bytes.Buffer
	err := w.WriteView(ctx, &buf, view)
	if err != nil {
		return err
	}
	return file.WriteAllContext(ctx, buf.Bytes())
}

// ViewStrings returns the view formatted as a slice of string slices,
// with cells already escaped and a header row included if configured.
func (w *Writer) ViewStrings(ctx context.Context, view memtable.View) ([][]string, error) {
	var (
		numRows = view.NumRows()
		numCols = view.Columns().Len()
		rows    = make([][]string, 0, numRows+1)
	)
	if w.headerRow {
		headerStrs := make([]string, numCols)
		for col, name := range view.Columns().Names() {
			headerStrs[col] = w.escapeString(name)
		}
		rows = append(rows, headerStrs)
	}
	for row := 0; row < numRows; row++ {
		rowStrs := make([]string, numCols)
		for col := range rowStrs {
			str, err := w.cellString(ctx, view, row, col)
			if err != nil {
				return nil, err
			}
			rowStrs[col] = str
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func (w *Writer) writeRow(ctx context.Context, rowBuf *bytes.Buffer, view memtable.View, row int) error {
	for col, numCols := 0, view.Columns().Len(); col < numCols; col++ {
		if col > 0 {
			rowBuf.WriteRune(w.delimiter)
		}
		str, err := w.cellString(ctx, view, row, col)
		if err != nil {
			return err
		}
		rowBuf.WriteString(str)
	}
	rowBuf.WriteString(w.newLine)
	return nil
}

func (w *Writer) writeHeaderRow(rowBuf *bytes.Buffer, cols *memtable.Columns) {
	for col, name := range cols.Names() {
		if col > 0 {
			rowBuf.WriteRune(w.delimiter)
		}
		rowBuf.WriteString(w.escapeString(name))
	}
	rowBuf.WriteString(w.newLine)
}

// writeSepHeaderRow writes a "sep=X" line declaring the delimiter
// like Microsoft Excel does. The line is never quoted.
func (w *Writer) writeSepHeaderRow(rowBuf *bytes.Buffer) {
	rowBuf.WriteString("sep=")
	rowBuf.WriteRune(w.delimiter)
	rowBuf.WriteString(w.newLine)
}

// flushRow encodes and writes the buffered row to dest
// and resets the buffer.
func (w *Writer) flushRow(dest io.Writer, rowBuf *bytes.Buffer) error {
	data := rowBuf.Bytes()
	if w.encoder != nil {
		var err error
		data, err = w.encoder.Bytes(data)
		if err != nil {
			return err
		}
	}
	_, err := dest.Write(data)
	rowBuf.Reset()
	return err
}

func (w *Writer) writeViewPadded(ctx context.Context, dest io.Writer, view memtable.View) error {
	rows, err := w.ViewStrings(ctx, view)
	if err != nil {
		return err
	}

	// Collect column widths of the escaped strings
	colRuneCount := memtable.StringColumnWidths(rows, view.Columns().Len())

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	if w.sepHeaderRow {
		w.writeSepHeaderRow(rowBuf)
		err = w.flushRow(dest, rowBuf)
		if err != nil {
			return err
		}
	}
	for row := range rows {
		for col, str := range rows[row] {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			var (
				padTotal = colRuneCount[col] - utf8.RuneCountInString(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			for i := 0; i < padLeft; i++ {
				rowBuf.WriteByte(' ')
			}
			rowBuf.WriteString(str)
			for i := 0; i < padRight; i++ {
				rowBuf.WriteByte(' ')
			}
		}
		rowBuf.WriteString(w.newLine)
		err = w.flushRow(dest, rowBuf)
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) cellString(ctx context.Context, view memtable.View, row, col int) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	val, err := view.CellValue(row, col)
	if err != nil {
		return "", err
	}
	if val.IsEmpty() {
		return w.escapeString(w.emptyValue), nil
	}
	return w.escapeString(val.String()), nil
}

func (w *Writer) escapeString(str string) string {
	// Remove all \r, a \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields ||
		strings.ContainsRune(str, w.delimiter) ||
		strings.ContainsRune(str, '\n') ||
		strings.ContainsRune(str, '"'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithSeparatorHeaderRow returns a writer that writes a "sep=X"
// line declaring the delimiter before any other output.
func (w *Writer) WithSeparatorHeaderRow(sepHeaderRow bool) *Writer {
	mod := w.clone()
	mod.sepHeaderRow = sepHeaderRow
	return mod
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

// WithEmptyValue returns a writer that writes emptyValue
// for Empty cells.
func (w *Writer) WithEmptyValue(emptyValue string) *Writer {
	mod := w.clone()
	mod.emptyValue = emptyValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) HeaderRow() bool {
	return w.headerRow
}

func (w *Writer) QuoteAllFields() bool {
	return w.quoteAllFields
}

func (w *Writer) QuoteEmptyFields() bool {
	return w.quoteEmptyFields
}

func (w *Writer) Delimiter() rune {
	return w.delimiter
}

func (w *Writer) EscapeQuotes() string {
	return w.escapeQuotes
}

func (w *Writer) EmptyValue() string {
	return w.emptyValue
}

func (w *Writer) NewLine() string {
	return w.newLine
}

func (w *Writer) Encoder() Encoder {
	return w.encoder
}
