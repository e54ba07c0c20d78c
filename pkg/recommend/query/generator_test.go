package query

import (
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare statement gains semicolon",
			raw:  `SELECT * FROM "Ecommerce_Data" LIMIT 10`,
			want: `SELECT * FROM "Ecommerce_Data" LIMIT 10;`,
		},
		{
			name: "already terminated",
			raw:  `SELECT 1 FROM t LIMIT 1;`,
			want: `SELECT 1 FROM t LIMIT 1;`,
		},
		{
			name: "sql fence stripped",
			raw:  "```sql\nSELECT * FROM t LIMIT 5\n```",
			want: "SELECT * FROM t LIMIT 5;",
		},
		{
			name: "fence with surrounding whitespace",
			raw:  "  ```sql\nSELECT \"Product_Name\" FROM t LIMIT 3;\n```  ",
			want: `SELECT "Product_Name" FROM t LIMIT 3;`,
		},
		{
			name: "empty response stays empty",
			raw:  "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.raw); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
