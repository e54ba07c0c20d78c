package schema

import (
	"context"
	"fmt"
	"log"

	"sparkmart-ai-be/internal/repository/contract"
	"sparkmart-ai-be/pkg/recommend/state"
)

const (
	categoryColumn = "Category"
	productColumn  = "Product_Name"

	maxCategories = 20
	maxProducts   = 10
)

// Inspector snapshots the catalog schema plus a sample of values for prompt
// context. The samples run without ORDER BY, so they can differ between
// runs; downstream stages must not rely on them for correctness.
type Inspector struct {
	catalog contract.CatalogRepository
	table   string
	logger  *log.Logger
}

func NewInspector(catalog contract.CatalogRepository, table string, logger *log.Logger) *Inspector {
	return &Inspector{
		catalog: catalog,
		table:   table,
		logger:  logger,
	}
}

// Run populates the schema fields on the state. On any store failure it sets
// ErrorMessage and leaves the collections empty so the rest of the pipeline
// short-circuits; it never returns an error itself.
func (i *Inspector) Run(ctx context.Context, s *state.State) *state.State {
	if s.Failed() {
		return s
	}

	i.logger.Printf("[SCHEMA_INSPECTOR] Fetching catalog schema for table %s", i.table)

	columns, err := i.catalog.ListColumns(ctx, i.table)
	if err != nil {
		i.logger.Printf("[SCHEMA_INSPECTOR] Error: %v", err)
		s.ErrorMessage = fmt.Sprintf("Database schema inspection failed: %v", err)
		return s
	}
	s.AvailableColumns = columns

	categories, err := i.catalog.DistinctValues(ctx, i.table, categoryColumn, maxCategories)
	if err != nil {
		i.logger.Printf("[SCHEMA_INSPECTOR] Error: %v", err)
		s.ErrorMessage = fmt.Sprintf("Database schema inspection failed: %v", err)
		return s
	}
	s.AvailableCategories = categories

	products, err := i.catalog.SampleValues(ctx, i.table, productColumn, maxProducts)
	if err != nil {
		i.logger.Printf("[SCHEMA_INSPECTOR] Error: %v", err)
		s.ErrorMessage = fmt.Sprintf("Database schema inspection failed: %v", err)
		return s
	}
	s.SampleProducts = products

	i.logger.Printf("[SCHEMA_INSPECTOR] Found %d columns, %d categories", len(columns), len(categories))
	return s
}
