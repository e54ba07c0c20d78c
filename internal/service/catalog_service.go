package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/repository/contract"
	"sparkmart-ai-be/pkg/events"
	"sparkmart-ai-be/pkg/nats"
)

const previewLimit = 5

type ICatalogService interface {
	UploadCSV(ctx context.Context, file io.Reader) (*dto.UploadCatalogResponse, error)
	Preview(ctx context.Context, limit int) (*dto.CatalogPreviewResponse, error)
	Schema(ctx context.Context) (*dto.CatalogSchemaResponse, error)
	Clear(ctx context.Context) error
}

// catalogService manages the product table the recommendation pipeline
// queries. Uploading a CSV replaces the table wholesale; the header row
// becomes the column set.
type catalogService struct {
	catalogRepo contract.CatalogRepository
	table       string
	publisher   *nats.Publisher
	log         logger.ILogger
}

func NewCatalogService(
	catalogRepo contract.CatalogRepository,
	table string,
	publisher *nats.Publisher,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		table:       table,
		publisher:   publisher,
		log:         log,
	}
}

func (s *catalogService) UploadCSV(ctx context.Context, file io.Reader) (*dto.UploadCatalogResponse, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("CSV header contains an empty column name")
		}
		columns = append(columns, col)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV contains no data rows")
	}

	if err := s.catalogRepo.ReplaceTable(ctx, s.table, columns, rows); err != nil {
		return nil, fmt.Errorf("failed to replace catalog table: %w", err)
	}

	s.log.Info("CatalogService", "Catalog replaced", map[string]interface{}{
		"table":     s.table,
		"columns":   columns,
		"row_count": len(rows),
	})

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewCatalogReplaced(s.table, len(rows))); err != nil {
			s.log.Warn("CatalogService", "Failed to publish catalog event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.UploadCatalogResponse{
		Table:    s.table,
		Columns:  columns,
		RowCount: len(rows),
	}, nil
}

func (s *catalogService) Preview(ctx context.Context, limit int) (*dto.CatalogPreviewResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = previewLimit
	}

	columns, rows, err := s.catalogRepo.Query(ctx,
		fmt.Sprintf(`SELECT * FROM %q LIMIT %d`, s.table, limit))
	if err != nil {
		return nil, err
	}

	return &dto.CatalogPreviewResponse{
		Columns: columns,
		Rows:    rows,
	}, nil
}

func (s *catalogService) Schema(ctx context.Context) (*dto.CatalogSchemaResponse, error) {
	columns, err := s.catalogRepo.ListColumns(ctx, s.table)
	if err != nil {
		return nil, err
	}

	categories, err := s.catalogRepo.DistinctValues(ctx, s.table, "Category", 50)
	if err != nil {
		// table may not have a Category column; schema is still useful
		s.log.Warn("CatalogService", "Failed to list categories", map[string]interface{}{"error": err.Error()})
		categories = nil
	}

	tables, err := s.catalogRepo.ListTables(ctx)
	if err != nil {
		s.log.Warn("CatalogService", "Failed to list tables", map[string]interface{}{"error": err.Error()})
		tables = nil
	}

	return &dto.CatalogSchemaResponse{
		Table:      s.table,
		Columns:    columns,
		Categories: categories,
		Tables:     tables,
	}, nil
}

func (s *catalogService) Clear(ctx context.Context) error {
	if err := s.catalogRepo.Truncate(ctx, s.table); err != nil {
		return err
	}
	s.log.Info("CatalogService", "Catalog cleared", map[string]interface{}{"table": s.table})
	return nil
}
