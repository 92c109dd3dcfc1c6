package htmltable

import "html/template"

// Default templates used by NewWriter.
var (
	// TableTemplate renders the opening table tag
	// with optional class and caption.
	TableTemplate = template.Must(template.New("table").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	// RowTemplate renders a single table row.
	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	// FooterTemplate renders the closing table tag.
	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))
)

// TemplateContext is the data for TableTemplate and FooterTemplate.
type TemplateContext struct {
	TableClass string
	Caption    string
}

// RowTemplateContext is the data for RowTemplate.
// The RawCells are written as is, so they must
// already be escaped where needed.
type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RawCells    []template.HTML
}
