package implementation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sparkmart-ai-be/internal/repository/contract"

	"gorm.io/gorm"
)

// identPattern guards table/column names interpolated into DDL and
// introspection statements. The catalog schema is user-uploaded, so names
// cannot be trusted the way model-derived names can.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*$`)

type CatalogRepositoryImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) contract.CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return `"` + name + `"`, nil
}

func (r *CatalogRepositoryImpl) ListTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`).
		Scan(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *CatalogRepositoryImpl) ListColumns(ctx context.Context, table string) ([]string, error) {
	var columns []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`, table).
		Scan(&columns).Error
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q has no columns or does not exist", table)
	}
	return columns, nil
}

func (r *CatalogRepositoryImpl) DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}
	qColumn, err := quoteIdent(column)
	if err != nil {
		return nil, err
	}

	// No ORDER BY: the store may return a different sample on every run.
	var values []string
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL LIMIT ?`, qColumn, qTable, qColumn)
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *CatalogRepositoryImpl) SampleValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	qTable, err := quoteIdent(table)
	if err != nil {
		return nil, err
	}
	qColumn, err := quoteIdent(column)
	if err != nil {
		return nil, err
	}

	var values []string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NOT NULL LIMIT ?`, qColumn, qTable, qColumn)
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *CatalogRepositoryImpl) Query(ctx context.Context, sql string) ([]string, []map[string]any, error) {
	rows, err := r.db.WithContext(ctx).Raw(sql).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			// Drivers hand text columns back as []byte; normalize to string
			// so the records serialize cleanly into prompts and JSON.
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, results, nil
}

func (r *CatalogRepositoryImpl) ReplaceTable(ctx context.Context, table string, columns []string, rows [][]string) error {
	qTable, err := quoteIdent(table)
	if err != nil {
		return err
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		q, err := quoteIdent(col)
		if err != nil {
			return err
		}
		quoted[i] = q + " TEXT"
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, qTable)).Error; err != nil {
			return err
		}
		if err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s (%s)`, qTable, strings.Join(quoted, ", "))).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		colNames := make([]string, len(columns))
		for i, col := range columns {
			colNames[i], _ = quoteIdent(col)
		}

		placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
		insert := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`, qTable, strings.Join(colNames, ", "), placeholder)

		for _, row := range rows {
			args := make([]any, len(row))
			for i, v := range row {
				args[i] = v
			}
			if err := tx.Exec(insert, args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CatalogRepositoryImpl) Truncate(ctx context.Context, table string) error {
	qTable, err := quoteIdent(table)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf(`TRUNCATE TABLE %s`, qTable)).Error
}
