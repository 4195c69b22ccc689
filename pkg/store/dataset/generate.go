package dataset

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GeneratedColumns is the header written by Generate.
var GeneratedColumns = []string{"transaction_date", "product", "category", "brand", "quantity", "price"}

var titleCase = cases.Title(language.English)

var defaultCategories = []string{"Food", "Beverage", "Household", "Personal Care", "Snacks"}

type GenerateOptions struct {
	Rows     int
	Products int
	Months   int
	Start    domain.MonthBucket
	Seed     int64
	// Categories to draw from; defaults to a small grocery set.
	Categories []string
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Rows:     500,
		Products: 12,
		Months:   12,
		Start:    domain.MonthBucket{Year: 2024, Month: time.January},
		Seed:     1,
	}
}

type catalogItem struct {
	name     string
	category string
	brand    string
	price    decimal.Decimal
}

// Generate builds a deterministic dummy sales table for the given seed.
func Generate(opts GenerateOptions) (domain.Table, error) {
	if opts.Rows < 0 || opts.Products < 1 || opts.Months < 1 {
		return domain.Table{}, fmt.Errorf("invalid generate options: rows=%d products=%d months=%d",
			opts.Rows, opts.Products, opts.Months)
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultGenerateOptions().Start
	}
	categories := opts.Categories
	if len(categories) == 0 {
		categories = defaultCategories
	}

	faker := gofakeit.New(opts.Seed)
	catalog := make([]catalogItem, 0, opts.Products)
	seen := make(map[string]bool, opts.Products)
	for len(catalog) < opts.Products {
		name := productName(faker)
		if seen[name] {
			name = fmt.Sprintf("%s %d", name, len(catalog)+1)
		}
		seen[name] = true
		catalog = append(catalog, catalogItem{
			name:     name,
			category: faker.RandomString(categories),
			brand:    faker.Company(),
			price:    decimal.NewFromFloat(faker.Float64Range(1, 50)).Round(2),
		})
	}

	table := domain.Table{Columns: GeneratedColumns, Rows: make([]domain.RawRow, 0, opts.Rows)}
	for i := 0; i < opts.Rows; i++ {
		item := catalog[faker.Number(0, len(catalog)-1)]
		month := opts.Start.AddMonths(faker.Number(0, opts.Months-1))
		day := faker.Number(1, 28)
		qty := faker.Number(1, 20)

		table.Rows = append(table.Rows, domain.RawRow{
			"transaction_date": time.Date(month.Year, month.Month, day, 0, 0, 0, 0, time.UTC),
			"product":          item.name,
			"category":         item.category,
			"brand":            item.brand,
			"quantity":         qty,
			"price":            item.price.Mul(decimal.NewFromInt(int64(qty))).InexactFloat64(),
		})
	}
	return table, nil
}

func productName(faker *gofakeit.Faker) string {
	return titleCase.String(faker.AdjectiveDescriptive() + " " + faker.NounConcrete())
}
