package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sales"

func readXLSX(r io.Reader, opts ReadOptions) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return domain.Table{}, ErrNoSheet
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text.
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerIdx := -1
	for i, row := range grid {
		if !isBlankStrings(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return domain.Table{}, ErrNoHeader
	}

	rows := make([][]any, 0, len(grid)-headerIdx-1)
	for i := headerIdx + 1; i < len(grid); i++ {
		cells := make([]any, len(grid[i]))
		for j, raw := range grid[i] {
			cells[j] = typedCell(f, sheet, j+1, i+1, raw)
		}
		rows = append(rows, cells)
	}
	return buildTable(grid[headerIdx], rows), nil
}

// typedCell returns numeric cells as float64 so the normalizer sees numbers,
// not locale-dependent text. Text cells that merely look numeric stay strings.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw
	default:
		return n
	}
}

func writeXLSX(w io.Writer, table domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", defaultSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := table.Headers()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(defaultSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(defaultSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %q: %w", h, err)
		}
	}

	for r, row := range table.Rows {
		values := make([]any, len(headers))
		for i, h := range headers {
			values[i] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(defaultSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
