package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var encodings = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// Decoder wraps r so it yields UTF-8 for the named encoding.
func Decoder(r io.Reader, name string) (io.Reader, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "utf-8" || key == "utf8" {
		return r, nil
	}
	enc, ok := encodings[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func readCSV(r io.Reader, opts ReadOptions) (domain.Table, error) {
	decoded, err := Decoder(r, opts.Encoding)
	if err != nil {
		return domain.Table{}, err
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var header []string
	var rows [][]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("failed to read csv: %w", err)
		}
		if header == nil {
			if isBlankStrings(record) {
				continue
			}
			header = record
			continue
		}
		cells := make([]any, len(record))
		for i, c := range record {
			cells[i] = c
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return domain.Table{}, ErrNoHeader
	}
	return buildTable(header, rows), nil
}

func writeCSV(w io.Writer, table domain.Table) error {
	writer := csv.NewWriter(w)
	headers := table.Headers()
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range table.Rows {
		for i, h := range headers {
			record[i] = cellString(row[h])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func isBlankStrings(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
