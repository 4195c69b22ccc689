package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// RowSource materialises the result of a query as an input table, so sales
// kept in a database go through the same normalizer as uploaded files.
type RowSource interface {
	Load(ctx context.Context, query string, args ...any) (domain.Table, error)
}

type rowSource struct {
	db *sql.DB
}

func NewRowSource(db *sql.DB) RowSource {
	return &rowSource{db: db}
}

func (s *rowSource) Load(ctx context.Context, query string, args ...any) (domain.Table, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Table{}, fmt.Errorf("sales query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close sales query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read result columns: %w", err)
	}

	table := domain.Table{Columns: columns, Rows: []domain.RawRow{}}
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return domain.Table{}, fmt.Errorf("failed to scan sales row: %w", err)
		}
		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			row[col] = cellValue(values[i])
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, fmt.Errorf("failed to iterate sales rows: %w", err)
	}

	logger.Debug().Int("rows", len(table.Rows)).Strs("columns", columns).Msg("loaded sales rows")
	return table, nil
}

// cellValue copies driver-owned buffers and widens integer types.
func cellValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.UTC()
	default:
		return val
	}
}
