// Package jsontable writes memtable views as JSON Lines:
// one JSON object per table row with the column names as keys,
// in table column order.
package jsontable

import (
	"bytes"
	"context"
	"io"
	"math"

	"github.com/goccy/go-json"
	"github.com/ungerik/go-fs"

	"github.com/domonda/go-memtable"
)

// Writer writes views as JSON Lines.
// An empty Writer is not valid, use NewWriter.
type Writer struct {
	newLine   string
	omitEmpty bool
}

// NewWriter returns a Writer that terminates
// every row object with "\n".
func NewWriter() *Writer {
	return &Writer{newLine: "\n"}
}

func (w *Writer) clone() *Writer {
	c := *w
	return &c
}

// WithNewLine returns a Writer that terminates
// every row object with the passed string.
func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

// WithOmitEmpty returns a Writer that leaves out
// object keys for empty cells instead of writing null.
func (w *Writer) WithOmitEmpty(omitEmpty bool) *Writer {
	mod := w.clone()
	mod.omitEmpty = omitEmpty
	return mod
}

// WriteView writes one JSON object per view row to dest.
// Empty cells are written as null unless configured
// with WithOmitEmpty.
// NaN and infinite floats have no JSON representation
// and are also written as null.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view memtable.View) error {
	columns := view.Columns().Names()
	keys := make([][]byte, len(columns))
	for i, name := range columns {
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	var buf bytes.Buffer
	for row := 0; row < view.NumRows(); row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf.Reset()
		buf.WriteByte('{')
		first := true
		for col := range columns {
			val, err := view.CellValue(row, col)
			if err != nil {
				return err
			}
			if w.omitEmpty && val.IsEmpty() {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.Write(keys[col])
			buf.WriteByte(':')
			if err := writeValue(&buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		buf.WriteString(w.newLine)
		if _, err := dest.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes one JSON object per view row to file.
func (w *Writer) WriteFile(ctx context.Context, file fs.File, view memtable.View) error {
	var buf bytes.Buffer
	err := w.WriteView(ctx, &buf, view)
	if err != nil {
		return err
	}
	return file.WriteAllContext(ctx, buf.Bytes())
}

func writeValue(buf *bytes.Buffer, val memtable.Value) error {
	switch val.Kind() {
	case memtable.KindInteger:
		b, err := json.Marshal(val.MustInt())
		if err != nil {
			return err
		}
		buf.Write(b)
	case memtable.KindFloat:
		f := val.MustFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		buf.Write(b)
	case memtable.KindEmpty:
		buf.WriteString("null")
	default:
		// Strings and all temporal kinds in their display form
		b, err := json.Marshal(val.String())
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
