package normalize

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errEmpty    = errors.New("empty value")
	errNegative = errors.New("negative value")
)

// excelEpoch is day zero of the 1900 date system as used by spreadsheet serials.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

var currencyTokens = []string{"idr", "rp", "usd", "eur", "$", "€", "£", "¥"}

// groupedCurrencies are written without minor units, so a lone mark followed
// by three digits is a thousands separator.
var groupedCurrencies = []string{"idr", "rp"}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []byte:
		return strings.TrimSpace(string(val))
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func (n *Normalizer) parseDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, errEmpty
	case time.Time:
		if val.IsZero() {
			return time.Time{}, errEmpty
		}
		return val, nil
	case float64:
		return fromExcelSerial(val)
	case int:
		return fromExcelSerial(float64(val))
	case int64:
		return fromExcelSerial(float64(val))
	}

	s := stringValue(v)
	if s == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range n.dateFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func fromExcelSerial(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, fmt.Errorf("date serial %v out of range", serial)
	}
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), nil
}

// parseAmount coerces a price cell into a non-negative decimal.
func (n *Normalizer) parseAmount(v any) (decimal.Decimal, error) {
	return n.parseNumber(v, false)
}

// parseNumber is parseAmount with wholeNumbers marking columns that never
// carry a fraction, where "1.000" is grouping under either separator.
func (n *Normalizer) parseNumber(v any, wholeNumbers bool) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case nil:
		return decimal.Zero, errEmpty
	case decimal.Decimal:
		d = val
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, fmt.Errorf("non-finite amount %v", val)
		}
		d = decimal.NewFromFloat(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	default:
		s, err := n.cleanNumber(stringValue(v), wholeNumbers)
		if err != nil {
			return decimal.Zero, err
		}
		d, err = decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unparsable amount %q", stringValue(v))
		}
	}

	if d.IsNegative() {
		return decimal.Zero, errNegative
	}
	return d, nil
}

// parseQuantity coerces a quantity cell into a non-negative whole number.
func (n *Normalizer) parseQuantity(v any) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, errEmpty
	case int:
		if val < 0 {
			return 0, errNegative
		}
		return int64(val), nil
	case int64:
		if val < 0 {
			return 0, errNegative
		}
		return val, nil
	}

	d, err := n.parseNumber(v, true)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("fractional quantity %s", d)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("quantity %s overflows", d)
	}
	return d.IntPart(), nil
}

// cleanNumber strips currency markers, whitespace and thousands separators,
// returning a string decimal.NewFromString accepts.
func (n *Normalizer) cleanNumber(s string, grouped bool) (string, error) {
	if s == "" {
		return "", errEmpty
	}

	lower := strings.ToLower(s)
	for _, token := range groupedCurrencies {
		if strings.Contains(lower, token) {
			grouped = true
		}
	}
	for _, token := range currencyTokens {
		lower = strings.ReplaceAll(lower, token, "")
	}
	lower = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, lower)

	negative := false
	if strings.HasPrefix(lower, "(") && strings.HasSuffix(lower, ")") {
		negative = true
		lower = strings.TrimSuffix(strings.TrimPrefix(lower, "("), ")")
	}
	if strings.HasPrefix(lower, "-") {
		negative = true
		lower = strings.TrimPrefix(lower, "-")
	}
	lower = strings.TrimPrefix(lower, "+")
	if lower == "" {
		return "", errEmpty
	}

	cleaned := n.normalizeSeparators(lower, grouped)
	if negative {
		cleaned = "-" + cleaned
	}
	return cleaned, nil
}

// normalizeSeparators rewrites the number to use '.' as the decimal separator
// and no grouping. When both ',' and '.' occur, the last one is the decimal
// separator; otherwise the configured decimal separator decides, and a mark
// that repeats is always grouping. With grouped set, a single mark followed
// by exactly three digits is grouping too.
func (n *Normalizer) normalizeSeparators(s string, grouped bool) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	decimalMark := byte(n.decimalSeparator)
	switch {
	case grouped && lastComma >= 0 && lastDot < 0 && isThousandsTail(s, lastComma):
		decimalMark = 0
	case grouped && lastDot >= 0 && lastComma < 0 && isThousandsTail(s, lastDot):
		decimalMark = 0
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			decimalMark = ','
		} else {
			decimalMark = '.'
		}
	case lastComma >= 0 && strings.Count(s, ",") > 1:
		decimalMark = '.'
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		decimalMark = ','
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == decimalMark:
			b.WriteByte('.')
		case c == ',' || c == '.':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isThousandsTail reports whether the mark at i is followed by exactly three
// digits.
func isThousandsTail(s string, i int) bool {
	tail := s[i+1:]
	if len(tail) != 3 {
		return false
	}
	for j := 0; j < len(tail); j++ {
		if tail[j] < '0' || tail[j] > '9' {
			return false
		}
	}
	return true
}
