package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/sales-atlas/pkg/models/api"
)

type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(writer io.Writer) *JSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONReporter{writer: writer}
}

func (c *JSONReporter) Handle(report api.AnalysisReport) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
