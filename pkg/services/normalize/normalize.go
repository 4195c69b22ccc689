// Package normalize turns raw uploaded rows into typed transaction records.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// UncategorizedLabel is assigned to records whose category cell is blank.
const UncategorizedLabel = "Uncategorized"

// DefaultDateFormats are tried in order; day-first layouts precede month-first ones.
var DefaultDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"01-02-06",
	"1/2/06",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

type Options struct {
	Columns          ColumnMapping
	DateFormats      []string
	Optional         []Field // fields that may be absent from the header
	DecimalSeparator rune    // '.' or ','
}

func DefaultOptions() Options {
	return Options{
		Columns:          DefaultColumnMapping(),
		DateFormats:      DefaultDateFormats,
		DecimalSeparator: '.',
	}
}

type Normalizer struct {
	columns          ColumnMapping
	dateFormats      []string
	optional         map[Field]bool
	decimalSeparator rune
}

func New(opts Options) *Normalizer {
	n := &Normalizer{
		columns:          DefaultColumnMapping().Merge(opts.Columns),
		dateFormats:      opts.DateFormats,
		optional:         make(map[Field]bool, len(opts.Optional)),
		decimalSeparator: opts.DecimalSeparator,
	}
	if len(n.dateFormats) == 0 {
		n.dateFormats = DefaultDateFormats
	}
	if n.decimalSeparator != ',' {
		n.decimalSeparator = '.'
	}
	for _, f := range opts.Optional {
		// date, product, quantity and price carry the aggregates and stay required
		if f == FieldCategory || f == FieldBrand {
			n.optional[f] = true
		}
	}
	return n
}

// Normalize parses every row of table. Rows that fail parsing are counted and
// traced, never returned as errors; only a header lacking required columns
// fails with *domain.SchemaError.
func (n *Normalizer) Normalize(table domain.Table) (domain.NormalizeResult, error) {
	columns, err := n.resolveColumns(table.Headers())
	if err != nil {
		return domain.NormalizeResult{}, err
	}

	result := domain.NormalizeResult{
		Records: make([]domain.TransactionRecord, 0, len(table.Rows)),
	}
	for i, row := range table.Rows {
		record, err := n.normalizeRow(row, columns)
		if err != nil {
			result.Rejected++
			result.Rejections = append(result.Rejections, domain.Rejection{Row: i, Reason: err.Error()})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func (n *Normalizer) resolveColumns(headers []string) (map[Field]string, error) {
	resolved := n.columns.resolve(headers)

	var missing []string
	for _, f := range Fields {
		if _, ok := resolved[f]; !ok && !n.optional[f] {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.SchemaError{Missing: missing}
	}
	return resolved, nil
}

func (n *Normalizer) normalizeRow(row domain.RawRow, columns map[Field]string) (domain.TransactionRecord, error) {
	date, err := n.parseDate(row[columns[FieldDate]])
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("%s: %w", FieldDate, err)
	}

	product := stringValue(row[columns[FieldProduct]])
	if product == "" {
		return domain.TransactionRecord{}, fmt.Errorf("%s: %w", FieldProduct, errEmpty)
	}

	quantity, err := n.parseQuantity(row[columns[FieldQuantity]])
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("%s: %w", FieldQuantity, err)
	}

	amount, err := n.parseAmount(row[columns[FieldPrice]])
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("%s: %w", FieldPrice, err)
	}

	category := optionalString(row, columns, FieldCategory)
	if category == "" {
		category = UncategorizedLabel
	}

	return domain.TransactionRecord{
		Date:     date,
		Product:  product,
		Category: category,
		Brand:    optionalString(row, columns, FieldBrand),
		Quantity: quantity,
		Amount:   amount,
	}, nil
}

func optionalString(row domain.RawRow, columns map[Field]string, f Field) string {
	header, ok := columns[f]
	if !ok {
		return ""
	}
	return strings.Join(strings.Fields(stringValue(row[header])), " ")
}
