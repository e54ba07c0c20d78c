package validate

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"sparkmart-ai-be/pkg/recommend/state"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name           string
		sql            string
		wantViolations int
		wantContains   []string
	}{
		{
			name:           "valid select",
			sql:            `SELECT * FROM "Ecommerce_Data" WHERE "Category" = 'Clothing' LIMIT 10;`,
			wantViolations: 0,
		},
		{
			name:           "lowercase keywords still pass",
			sql:            `select "Product_Name" from "Ecommerce_Data" limit 5;`,
			wantViolations: 0,
		},
		{
			name:           "drop statement",
			sql:            "DROP TABLE orders;",
			wantViolations: 4,
			wantContains:   []string{"DROP", "SELECT", "LIMIT", "FROM"},
		},
		{
			name:           "delete hidden mid-query",
			sql:            `SELECT * FROM t WHERE a = 1; DELETE FROM t LIMIT 1;`,
			wantViolations: 1,
			wantContains:   []string{"DELETE"},
		},
		{
			name:           "keyword inside string literal still rejected",
			sql:            `SELECT * FROM t WHERE name = 'UPDATE me' LIMIT 5;`,
			wantViolations: 1,
			wantContains:   []string{"UPDATE"},
		},
		{
			name:           "missing limit",
			sql:            `SELECT * FROM "Ecommerce_Data";`,
			wantViolations: 1,
			wantContains:   []string{"LIMIT"},
		},
		{
			name:           "missing from and limit reported together",
			sql:            `SELECT 1;`,
			wantViolations: 2,
			wantContains:   []string{"LIMIT", "FROM"},
		},
		{
			name:           "empty query",
			sql:            "   ",
			wantViolations: 1,
			wantContains:   []string{"empty"},
		},
		{
			name:           "insert with select subquery",
			sql:            `INSERT INTO t SELECT * FROM u LIMIT 1;`,
			wantViolations: 2,
			wantContains:   []string{"INSERT", "SELECT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Check(tt.sql)
			if len(violations) != tt.wantViolations {
				t.Fatalf("Check(%q) = %v, want %d violations", tt.sql, violations, tt.wantViolations)
			}
			joined := strings.Join(violations, ", ")
			for _, want := range tt.wantContains {
				if !strings.Contains(joined, want) {
					t.Errorf("violations %q missing %q", joined, want)
				}
			}
		})
	}
}

func TestValidatorRun(t *testing.T) {
	v := NewValidator(log.New(io.Discard, "", 0))

	t.Run("invalid query sets error message", func(t *testing.T) {
		s := state.New("show me shirts", "session-1")
		s.SQLQuery = "DROP TABLE orders;"

		v.Run(context.Background(), s)

		if !s.Failed() {
			t.Fatal("expected state to be failed")
		}
		if len(s.ValidationErrors) == 0 {
			t.Fatal("expected validation errors")
		}
		if !strings.HasPrefix(s.ErrorMessage, "Invalid query: ") {
			t.Errorf("unexpected error message %q", s.ErrorMessage)
		}
	})

	t.Run("already failed state passes through untouched", func(t *testing.T) {
		s := state.New("q", "session-1")
		s.ErrorMessage = "upstream failure"
		s.SQLQuery = "DROP TABLE orders;"

		v.Run(context.Background(), s)

		if len(s.ValidationErrors) != 0 {
			t.Errorf("guarded stage must not add violations, got %v", s.ValidationErrors)
		}
		if s.ErrorMessage != "upstream failure" {
			t.Errorf("error message overwritten: %q", s.ErrorMessage)
		}
	})

	t.Run("valid query leaves state clean", func(t *testing.T) {
		s := state.New("q", "session-1")
		s.SQLQuery = `SELECT * FROM "Ecommerce_Data" LIMIT 10;`

		v.Run(context.Background(), s)

		if s.Failed() {
			t.Fatalf("unexpected failure: %q %v", s.ErrorMessage, s.ValidationErrors)
		}
	})
}
