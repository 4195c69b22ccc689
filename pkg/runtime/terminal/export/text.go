package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// TextReporter outputs reports as plain indented text
type TextReporter struct {
	writer io.Writer
}

func NewTextReporter(writer io.Writer) *TextReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TextReporter{writer: writer}
}

func (c *TextReporter) Handle(report *domain.Report) error {
	tmpl := `
{{.Title}}{{if .Period.Duration}} ({{.Period.Duration}} months)
Period: {{.Period.Start}} to {{.Period.End}}{{end}}
Total Amount: {{if .Currency}}{{.Currency}} {{end}}{{.TotalAmount}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{if .Description}}
  {{.Description}}{{end}}
{{end}}{{end}}`
	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
