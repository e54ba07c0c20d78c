package execute

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sparkmart-ai-be/internal/repository/contract"
	"sparkmart-ai-be/pkg/recommend/state"
)

// Executor runs the validated statement against the catalog and captures the
// rows plus the driver-reported column order.
type Executor struct {
	catalog contract.CatalogRepository
	logger  *log.Logger
}

func NewExecutor(catalog contract.CatalogRepository, logger *log.Logger) *Executor {
	return &Executor{catalog: catalog, logger: logger}
}

func (e *Executor) Run(ctx context.Context, s *state.State) *state.State {
	if s.Failed() {
		return s
	}

	e.logger.Printf("[SQL_EXECUTOR] Executing query...")

	sql := strings.TrimSuffix(strings.TrimSpace(s.SQLQuery), ";")

	columns, rows, err := e.catalog.Query(ctx, sql)
	if err != nil {
		e.logger.Printf("[SQL_EXECUTOR] Error: %v", err)
		s.ErrorMessage = fmt.Sprintf("Query execution failed: %v", err)
		return s
	}

	s.ResultColumns = columns
	s.QueryResults = rows

	e.logger.Printf("[SQL_EXECUTOR] Query returned %d results", len(rows))
	return s
}
