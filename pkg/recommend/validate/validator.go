package validate

import (
	"context"
	"log"
	"strings"

	"sparkmart-ai-be/pkg/recommend/state"
)

// dangerousKeywords are rejected by textual scan anywhere in the statement,
// string literals included. A read-only query has no business containing them.
var dangerousKeywords = []string{"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "TRUNCATE", "CREATE"}

// Validator deterministically checks the generated statement before it
// reaches the database. All checks run independently so a failing query
// reports every violation at once.
type Validator struct {
	logger *log.Logger
}

func NewValidator(logger *log.Logger) *Validator {
	return &Validator{logger: logger}
}

func (v *Validator) Run(_ context.Context, s *state.State) *state.State {
	if s.Failed() {
		return s
	}

	v.logger.Printf("[QUERY_VALIDATOR] Validating SQL query...")

	violations := Check(s.SQLQuery)
	if len(violations) > 0 {
		s.ValidationErrors = violations
		s.ErrorMessage = "Invalid query: " + strings.Join(violations, ", ")
		v.logger.Printf("[QUERY_VALIDATOR] Validation failed: %s", s.ErrorMessage)
		return s
	}

	v.logger.Printf("[QUERY_VALIDATOR] Query validated successfully")
	return s
}

// Check returns every violation found in the statement. It is total: any
// input string produces a verdict, never an error.
func Check(sql string) []string {
	var violations []string

	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)

	if trimmed == "" {
		violations = append(violations, "query is empty")
		return violations
	}

	for _, keyword := range dangerousKeywords {
		if strings.Contains(upper, keyword) {
			violations = append(violations, "query contains forbidden keyword: "+keyword)
		}
	}

	if !strings.HasPrefix(upper, "SELECT") {
		violations = append(violations, "query must start with SELECT")
	}

	if !strings.Contains(upper, "LIMIT") {
		violations = append(violations, "query must include a LIMIT clause")
	}

	if !strings.Contains(upper, "FROM") {
		violations = append(violations, "query must include a FROM clause")
	}

	return violations
}
