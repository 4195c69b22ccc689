package normalize

import (
	"strings"
)

// Field is a canonical TransactionRecord column.
type Field string

const (
	FieldDate     Field = "date"
	FieldProduct  Field = "product"
	FieldCategory Field = "category"
	FieldBrand    Field = "brand"
	FieldQuantity Field = "quantity"
	FieldPrice    Field = "price"
)

// Fields lists every canonical field in schema order.
var Fields = []Field{FieldDate, FieldProduct, FieldCategory, FieldBrand, FieldQuantity, FieldPrice}

func ParseField(s string) (Field, bool) {
	f := Field(headerKey(s))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// ColumnMapping lists, per canonical field, the source headers that may carry it.
// The first candidate present in the table wins.
type ColumnMapping map[Field][]string

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		FieldDate:     {"transaction_date", "bulan_transaksi", "tanggal_transaksi", "date", "tanggal"},
		FieldProduct:  {"product", "produk", "product_name", "nama_produk"},
		FieldCategory: {"category", "kategori"},
		FieldBrand:    {"brand", "merek", "merk"},
		FieldQuantity: {"quantity", "qty", "jumlah"},
		FieldPrice:    {"price", "total_price", "total_harga", "harga", "amount"},
	}
}

// Merge returns a copy of m where fields present in override replace the defaults.
func (m ColumnMapping) Merge(override ColumnMapping) ColumnMapping {
	merged := make(ColumnMapping, len(m))
	for f, c := range m {
		merged[f] = append([]string(nil), c...)
	}
	for f, c := range override {
		if len(c) > 0 {
			merged[f] = append([]string(nil), c...)
		}
	}
	return merged
}

// resolve maps each canonical field to the concrete header found in headers.
func (m ColumnMapping) resolve(headers []string) map[Field]string {
	byKey := make(map[string]string, len(headers))
	for _, h := range headers {
		k := headerKey(h)
		if _, dup := byKey[k]; !dup {
			byKey[k] = h
		}
	}

	resolved := make(map[Field]string, len(m))
	for _, f := range Fields {
		for _, candidate := range m[f] {
			if h, ok := byKey[headerKey(candidate)]; ok {
				resolved[f] = h
				break
			}
		}
	}
	return resolved
}

// headerKey folds case, surrounding space and separators so "Total Harga"
// matches "total_harga".
func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(h)
}
