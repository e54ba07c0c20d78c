package implementation

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return db, mock
}

func assertExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestListColumns(t *testing.T) {
	db, mock := newGormMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`)).
		WithArgs("Ecommerce_Data").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
			AddRow("Product_Name").
			AddRow("Category").
			AddRow("Price"))

	columns, err := repo.ListColumns(context.Background(), "Ecommerce_Data")
	if err != nil {
		t.Fatalf("ListColumns() error = %v", err)
	}
	if len(columns) != 3 || columns[0] != "Product_Name" || columns[2] != "Price" {
		t.Errorf("columns = %v", columns)
	}
	assertExpectations(t, mock)
}

func TestListColumnsMissingTable(t *testing.T) {
	db, mock := newGormMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(`SELECT column_name`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	_, err := repo.ListColumns(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	assertExpectations(t, mock)
}

func TestDistinctValuesRejectsBadIdentifier(t *testing.T) {
	db, _ := newGormMock(t)
	repo := NewCatalogRepository(db)

	_, err := repo.DistinctValues(context.Background(), `bad";drop`, "Category", 5)
	if err == nil {
		t.Fatal("expected identifier rejection")
	}
}

func TestQueryPreservesColumnOrderAndNormalizesBytes(t *testing.T) {
	db, mock := newGormMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "Product_Name", "Price" FROM "Ecommerce_Data" LIMIT 10`)).
		WillReturnRows(sqlmock.NewRows([]string{"Product_Name", "Price"}).
			AddRow([]byte("Yoga Mat"), []byte("39.00")).
			AddRow([]byte("Running Shoes"), []byte("99.95")))

	columns, rows, err := repo.Query(context.Background(),
		`SELECT "Product_Name", "Price" FROM "Ecommerce_Data" LIMIT 10`)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if columns[0] != "Product_Name" || columns[1] != "Price" {
		t.Errorf("column order = %v", columns)
	}
	if rows[0]["Product_Name"] != "Yoga Mat" {
		t.Errorf("bytes not normalized to string: %#v", rows[0]["Product_Name"])
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d", len(rows))
	}
	assertExpectations(t, mock)
}

func TestReplaceTable(t *testing.T) {
	db, mock := newGormMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "Ecommerce_Data"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "Ecommerce_Data" ("Product_Name" TEXT, "Category" TEXT)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "Ecommerce_Data" ("Product_Name", "Category") VALUES ($1,$2)`)).
		WithArgs("Yoga Mat", "Sports").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "Ecommerce_Data" ("Product_Name", "Category") VALUES ($1,$2)`)).
		WithArgs("Wool Beanie", "Clothing").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceTable(context.Background(), "Ecommerce_Data",
		[]string{"Product_Name", "Category"},
		[][]string{
			{"Yoga Mat", "Sports"},
			{"Wool Beanie", "Clothing"},
		})
	if err != nil {
		t.Fatalf("ReplaceTable() error = %v", err)
	}
	assertExpectations(t, mock)
}

func TestTruncate(t *testing.T) {
	db, mock := newGormMock(t)
	repo := NewCatalogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`TRUNCATE TABLE "Ecommerce_Data"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Truncate(context.Background(), "Ecommerce_Data"); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	assertExpectations(t, mock)
}
