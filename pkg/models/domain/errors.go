package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from an input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
