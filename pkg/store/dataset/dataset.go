// Package dataset reads and writes tabular sales files (CSV and XLSX).
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported dataset format")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrNoSheet             = errors.New("workbook has no sheets")
	ErrNoHeader            = errors.New("dataset has no header row")
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

type ReadOptions struct {
	// Encoding of CSV input, e.g. "windows-1252". Empty means UTF-8.
	Encoding string
	// Sheet to read from a workbook. Empty means the first sheet.
	Sheet string
}

// Read materialises r into a table. The first non-empty row is the header.
func Read(r io.Reader, format Format, opts ReadOptions) (domain.Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r, opts)
	case FormatXLSX:
		return readXLSX(r, opts)
	default:
		return domain.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func LoadFile(path string, opts ReadOptions) (domain.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Table{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, format, opts)
}

// Write serialises table in the given format.
func Write(w io.Writer, format Format, table domain.Table) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, table)
	case FormatXLSX:
		return writeXLSX(w, table)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func SaveFile(path string, table domain.Table) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	if err := Write(f, format, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// buildTable turns header and data rows into a table. Blank header cells get
// positional names and blank data rows are skipped.
func buildTable(header []string, rows [][]any) domain.Table {
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		columns[i] = h
	}

	table := domain.Table{Columns: columns, Rows: make([]domain.RawRow, 0, len(rows))}
	for _, cells := range rows {
		if isBlank(cells) {
			continue
		}
		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isBlank(cells []any) bool {
	for _, c := range cells {
		switch v := c.(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.DateOnly)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
