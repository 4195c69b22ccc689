package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(date any, product, category, brand string, qty, price any) domain.RawRow {
	return domain.RawRow{
		"transaction_date": date,
		"product":          product,
		"category":         category,
		"brand":            brand,
		"quantity":         qty,
		"price":            price,
	}
}

func TestNormalize_RejectsUnparsableDates(t *testing.T) {
	rows := []domain.RawRow{
		row("not a date", "A", "Food", "X", "1", "10"),
		row("2024-13-45", "A", "Food", "X", "1", "10"),
	}
	for m := 1; m <= 8; m++ {
		rows = append(rows, row(time.Date(2024, time.Month(m), 5, 0, 0, 0, 0, time.UTC), "A", "Food", "X", 2, 100.0))
	}

	result, err := New(DefaultOptions()).Normalize(domain.Table{Rows: rows})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rejected)
	assert.Len(t, result.Records, 8)
	require.Len(t, result.Rejections, 2)
	assert.Equal(t, 0, result.Rejections[0].Row)
	assert.Contains(t, result.Rejections[0].Reason, "date")
	assert.Equal(t, len(rows), result.Rejected+len(result.Records))
}

func TestNormalize_MissingColumns(t *testing.T) {
	table := domain.Table{
		Columns: []string{"transaction_date", "product"},
		Rows:    []domain.RawRow{{"transaction_date": "2024-01-01", "product": "A"}},
	}

	_, err := New(DefaultOptions()).Normalize(table)

	var schemaErr *domain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"brand", "category", "price", "quantity"}, schemaErr.Missing)
}

func TestNormalize_OptionalCategoryAndBrand(t *testing.T) {
	table := domain.Table{
		Columns: []string{"bulan_transaksi", "produk", "jumlah", "total_harga"},
		Rows: []domain.RawRow{
			{"bulan_transaksi": "2024-01-01", "produk": "Kopi", "jumlah": "3", "total_harga": "Rp 45.000"},
		},
	}
	opts := DefaultOptions()
	opts.Optional = []Field{FieldCategory, FieldBrand, FieldDate}
	opts.DecimalSeparator = ','

	result, err := New(opts).Normalize(table)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "Kopi", rec.Product)
	assert.Equal(t, UncategorizedLabel, rec.Category)
	assert.Equal(t, "", rec.Brand)
	assert.Equal(t, int64(3), rec.Quantity)
	assert.True(t, decimal.NewFromInt(45000).Equal(rec.Amount), rec.Amount.String())
}

func TestNormalize_HeaderMatchingIgnoresCaseAndSpacing(t *testing.T) {
	table := domain.Table{
		Columns: []string{" Tanggal Transaksi ", "Produk", "Kategori", "Merek", "Jumlah", "Total-Harga"},
		Rows: []domain.RawRow{{
			" Tanggal Transaksi ": "15/03/2024",
			"Produk":              "  Teh   Botol ",
			"Kategori":            "Minuman",
			"Merek":               "Sosro",
			"Jumlah":              12.0,
			"Total-Harga":         "$1,250.50",
		}},
	}

	result, err := New(DefaultOptions()).Normalize(table)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "Teh   Botol", rec.Product)
	assert.Equal(t, int64(12), rec.Quantity)
	assert.Equal(t, "1250.5", rec.Amount.String())
}

func TestNormalize_CustomColumnMapping(t *testing.T) {
	opts := DefaultOptions()
	opts.Columns = ColumnMapping{FieldPrice: {"omzet"}}
	table := domain.Table{Rows: []domain.RawRow{{
		"transaction_date": "2024-02-01", "product": "A", "category": "C", "brand": "B",
		"quantity": 1, "omzet": "99",
	}}}

	result, err := New(opts).Normalize(table)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "99", result.Records[0].Amount.String())
}

func TestNormalize_RowRejections(t *testing.T) {
	tests := []struct {
		name   string
		row    domain.RawRow
		reason string
	}{
		{"negative quantity", row("2024-01-01", "A", "C", "B", "-1", "10"), "quantity"},
		{"fractional quantity", row("2024-01-01", "A", "C", "B", 1.5, "10"), "quantity"},
		{"text quantity", row("2024-01-01", "A", "C", "B", "lots", "10"), "quantity"},
		{"negative price", row("2024-01-01", "A", "C", "B", 1, "(10.00)"), "price"},
		{"text price", row("2024-01-01", "A", "C", "B", 1, "free"), "price"},
		{"missing price", row("2024-01-01", "A", "C", "B", 1, nil), "price"},
		{"empty product", row("2024-01-01", " ", "C", "B", 1, "10"), "product"},
		{"empty date", row("", "A", "C", "B", 1, "10"), "date"},
		{"bare year", row("2024", "A", "C", "B", 1, "10"), "date"},
		{"serial as text", row("45366", "A", "C", "B", 1, "10"), "date"},
		{"grouped fractional quantity", row("2024-01-01", "A", "C", "B", "2.5", "10"), "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(DefaultOptions()).Normalize(domain.Table{Rows: []domain.RawRow{tt.row}})
			require.NoError(t, err)
			assert.Empty(t, result.Records)
			require.Len(t, result.Rejections, 1)
			assert.Contains(t, result.Rejections[0].Reason, tt.reason)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		sep     rune
		want    string
		wantErr bool
	}{
		{"plain", "1234.5", '.', "1234.5", false},
		{"us grouping", "1,234,567.89", '.', "1234567.89", false},
		{"eu grouping", "1.234.567,89", '.', "1234567.89", false},
		{"rupiah", "Rp 15.000", ',', "15000", false},
		{"rupiah repeated dots", "IDR 1.500.000", '.', "1500000", false},
		{"decimal comma", "12,5", ',', "12.5", false},
		{"single comma grouping", "1,200", '.', "1200", false},
		{"euro symbol", "€ 9.99", '.', "9.99", false},
		{"rupiah under dot decimal", "Rp 15.000", '.', "15000", false},
		{"rupiah millions under dot decimal", "Rp 1.500.000", '.', "1500000", false},
		{"idr comma grouping", "IDR 15,000", ',', "15000", false},
		{"rupiah with cents", "Rp 15.000,50", '.', "15000.5", false},
		{"rupiah short tail stays decimal", "Rp 15.5", '.', "15.5", false},
		{"bare three digit tail stays decimal", "1.000", '.', "1", false},
		{"float", 10.25, '.', "10.25", false},
		{"int", 7, '.', "7", false},
		{"decimal value", decimal.RequireFromString("3.3"), '.', "3.3", false},
		{"negative", "-5", '.', "", true},
		{"garbage", "abc", '.', "", true},
		{"empty", "   ", '.', "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.DecimalSeparator = tt.sep
			got, err := New(opts).parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDate(t *testing.T) {
	n := New(DefaultOptions())
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"iso", "2024-03-15", want},
		{"iso with time", "2024-03-15 00:00:00", want},
		{"day first slash", "15/03/2024", want},
		{"excel serial float", 45366.0, want},
		{"time value", want, want},
		{"month only", "2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"month name", "Mar 2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.parseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := n.parseDate(time.Time{})
	assert.Error(t, err)
	_, err = n.parseDate(-3.0)
	assert.Error(t, err)

	for _, text := range []string{"2024", "45366", "12"} {
		_, err = n.parseDate(text)
		assert.Error(t, err, "numeric text %q must not be read as a serial", text)
	}
	got, err := n.parseDate(45366)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestParseQuantity_GroupingMarks(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		sep     rune
		want    int64
		wantErr bool
	}{
		{"dot grouping under dot decimal", "1.000", '.', 1000, false},
		{"comma grouping under comma decimal", "1,000", ',', 1000, false},
		{"millions", "1.000.000", '.', 1000000, false},
		{"plain", "12", '.', 12, false},
		{"fraction", "2.5", '.', 0, true},
		{"short tail", "1.00", '.', 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.DecimalSeparator = tt.sep
			got, err := New(opts).parseQuantity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_MixedRupiahColumn(t *testing.T) {
	// Given a price column mixing rupiah grouping with plain decimals under the
	// default '.' separator
	rows := []domain.RawRow{
		row("2024-01-01", "Kopi", "Minuman", "Kapal Api", "1.000", "Rp 15.000"),
		row("2024-01-02", "Kopi", "Minuman", "Kapal Api", "2", "Rp 1.500.000"),
		row("2024-01-03", "Teh", "Minuman", "Sosro", "3", "12.50"),
	}

	// When the table is normalized
	result, err := New(DefaultOptions()).Normalize(domain.Table{Rows: rows})
	require.NoError(t, err)

	// Then grouping marks are dropped and decimals kept
	require.Len(t, result.Records, 3)
	assert.Equal(t, int64(1000), result.Records[0].Quantity)
	assert.Equal(t, "15000", result.Records[0].Amount.String())
	assert.Equal(t, "1500000", result.Records[1].Amount.String())
	assert.Equal(t, "12.5", result.Records[2].Amount.String())
}
