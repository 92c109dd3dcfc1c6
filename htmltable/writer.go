// Package htmltable writes memtable views as HTML tables.
// All cell values are rendered in their display form and
// HTML-escaped, the templates used for the table structure
// can be replaced per Writer.
package htmltable

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/ungerik/go-fs"

	"github.com/domonda/go-memtable"
)

// Writer writes views as HTML table elements.
// An empty Writer is not valid, use NewWriter.
//
// Writer is immutable, all With* methods return
// a modified clone of the Writer.
type Writer struct {
	tableClass     string
	emptyValue     template.HTML
	headerRow      bool
	tableTemplate  *template.Template
	rowTemplate    *template.Template
	footerTemplate *template.Template
}

// NewWriter returns a Writer with the default templates
// that renders column names as header row
// and empty cells as empty <td> elements.
func NewWriter() *Writer {
	return &Writer{
		headerRow:      true,
		tableTemplate:  TableTemplate,
		rowTemplate:    RowTemplate,
		footerTemplate: FooterTemplate,
	}
}

func (w *Writer) clone() *Writer {
	c := *w
	return &c
}

// WithHeaderRow returns a Writer that renders the column
// names as header row with <th> elements when true.
func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithTableClass returns a Writer that renders the passed
// CSS class as <table class='tableClass'>.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithEmptyValue returns a Writer that renders the passed
// HTML for empty cells instead of nothing.
// The HTML is written as is without escaping.
func (w *Writer) WithEmptyValue(emptyValue template.HTML) *Writer {
	mod := w.clone()
	mod.emptyValue = emptyValue
	return mod
}

// WithTemplate returns a Writer that uses the passed templates
// for the opening table tag with optional caption,
// for every table row and for the closing table tag.
// The templates are executed with TemplateContext
// and RowTemplateContext data.
func (w *Writer) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.tableTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

// TableClass returns the CSS class for the table element.
func (w *Writer) TableClass() string {
	return w.tableClass
}

// EmptyValue returns the HTML rendered for empty cells.
func (w *Writer) EmptyValue() template.HTML {
	return w.emptyValue
}

// HeaderRow returns whether a header row
// with the column names will be written.
func (w *Writer) HeaderRow() bool {
	return w.headerRow
}

// WriteView writes the view as HTML table to dest.
// The optional caption strings are joined with spaces
// and rendered as <caption> element.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view memtable.View, caption ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	columns := view.Columns().Names()
	templData := &RowTemplateContext{
		TemplateContext: TemplateContext{
			TableClass: w.tableClass,
			Caption:    strings.Join(caption, " "),
		},
		RawCells: make([]template.HTML, len(columns)),
	}

	err := w.tableTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		for i, name := range columns {
			templData.RawCells[i] = template.HTML(template.HTMLEscapeString(name)) //#nosec G203
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.IsHeaderRow = false
		templData.RowIndex++
	}

	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col := range columns {
			val, err := view.CellValue(row, col)
			if err != nil {
				return err
			}
			if val.IsEmpty() {
				templData.RawCells[col] = w.emptyValue
				continue
			}
			templData.RawCells[col] = template.HTML(template.HTMLEscapeString(val.String())) //#nosec G203
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

// WriteFile writes the view as HTML table to file.
func (w *Writer) WriteFile(ctx context.Context, file fs.File, view memtable.View, caption ...string) error {
	var buf bytes.Buffer
	err := w.WriteView(ctx, &buf, view, caption...)
	if err != nil {
		return err
	}
	return file.WriteAllContext(ctx, buf.Bytes())
}
