package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/state"
)

const (
	maxFormatResults    = 10
	maxFormatCategories = 5
	maxFallbackProducts = 5
)

// Formatter turns query results into a conversational reply. A failed
// pipeline always produces the standard apology; an LLM outage degrades to a
// deterministic product listing so the user still gets their results.
type Formatter struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewFormatter(llmProvider llm.LLMProvider, logger *log.Logger) *Formatter {
	return &Formatter{llmProvider: llmProvider, logger: logger}
}

func (f *Formatter) Run(ctx context.Context, s *state.State) *state.State {
	if s.Failed() {
		f.logger.Printf("[RESPONSE_FORMATTER] Pipeline failed earlier, returning apology")
		s.FormattedResponse = constant.RecommendationApology
		return s
	}

	f.logger.Printf("[RESPONSE_FORMATTER] Formatting response for %d results...", len(s.QueryResults))

	systemPrompt := fmt.Sprintf(constant.ResponseFormatterPrompt,
		strings.Join(head(s.AvailableCategories, maxFormatCategories), ", "))

	userPrompt := buildResultsPrompt(s)

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	response, err := f.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.3))
	if err != nil || strings.TrimSpace(response) == "" {
		if err != nil {
			f.logger.Printf("[RESPONSE_FORMATTER] Error: %v, using fallback", err)
		}
		s.FormattedResponse = Fallback(s.ResultColumns, s.QueryResults)
		return s
	}

	s.FormattedResponse = strings.TrimSpace(response)
	return s
}

func buildResultsPrompt(s *state.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User Query: %s\n\n", s.UserQuery)

	if len(s.QueryResults) == 0 {
		sb.WriteString("No products matched the query. Suggest alternatives from the available categories.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Found %d products. Showing up to %d:\n", len(s.QueryResults), maxFormatResults)
	for i, row := range s.QueryResults {
		if i >= maxFormatResults {
			break
		}
		var fields []string
		for _, col := range s.ResultColumns {
			fields = append(fields, fmt.Sprintf("%s: %v", col, row[col]))
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.Join(fields, ", "))
	}
	sb.WriteString("\nPresent these products conversationally.")
	return sb.String()
}

// Fallback renders results without an LLM. Output depends only on its
// inputs, so an outage mid-conversation stays reproducible.
func Fallback(columns []string, rows []map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d products:\n\n", len(rows))

	for i, row := range rows {
		if i >= maxFallbackProducts {
			break
		}
		name := fieldOr(row, "Product_Name", firstValue(columns, row))
		fmt.Fprintf(&sb, "%d. %v\n", i+1, name)
		if category, ok := row["Category"]; ok {
			fmt.Fprintf(&sb, "   Category: %v\n", category)
		}
		if price, ok := row["Price"]; ok {
			fmt.Fprintf(&sb, "   Price: $%v\n", price)
		}
	}

	return sb.String()
}

func fieldOr(row map[string]any, key string, fallback any) any {
	if v, ok := row[key]; ok {
		return v
	}
	return fallback
}

func firstValue(columns []string, row map[string]any) any {
	if len(columns) > 0 {
		return row[columns[0]]
	}
	return "(unnamed product)"
}

func head(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
