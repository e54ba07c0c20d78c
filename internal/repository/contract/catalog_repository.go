package contract

import (
	"context"
)

// CatalogRepository is the SQL-speaking catalog store. The product table has
// a dynamic schema (it is replaced wholesale by CSV uploads), so this
// contract works with raw statements and untyped rows instead of models.
type CatalogRepository interface {
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]string, error)

	// DistinctValues and SampleValues deliberately run without ORDER BY:
	// the values are best-effort prompt context, not a stable contract.
	DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error)
	SampleValues(ctx context.Context, table, column string, limit int) ([]string, error)

	// Query runs a read statement and returns the store's column order plus
	// one map per row keyed by column name.
	Query(ctx context.Context, sql string) ([]string, []map[string]any, error)

	// ReplaceTable drops and recreates the table with TEXT columns, then
	// bulk-inserts the given rows. Used by the CSV catalog upload.
	ReplaceTable(ctx context.Context, table string, columns []string, rows [][]string) error

	Truncate(ctx context.Context, table string) error
}
