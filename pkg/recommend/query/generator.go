package query

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/state"
)

const (
	maxPromptCategories = 10
	maxPromptProducts   = 5
)

var fencePattern = regexp.MustCompile("```sql\\s*|\\s*```")

// Generator synthesizes one SQL statement from the normalized query and the
// schema snapshot. It performs no semantic reasoning itself; correctness of
// the statement is the validator's job.
type Generator struct {
	llmProvider llm.LLMProvider
	table       string
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, table string, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		table:       table,
		logger:      logger,
	}
}

func (g *Generator) Run(ctx context.Context, s *state.State, history []llm.Message) *state.State {
	if s.Failed() {
		return s
	}

	g.logger.Printf("[QUERY_GENERATOR] Generating SQL query...")

	systemPrompt := fmt.Sprintf(constant.QueryGeneratorPrompt,
		g.table,
		strings.Join(s.AvailableColumns, ", "),
		strings.Join(head(s.AvailableCategories, maxPromptCategories), ", "),
		strings.Join(head(s.SampleProducts, maxPromptProducts), ", "),
		g.table, g.table, g.table,
	)

	userPrompt := fmt.Sprintf("User Query: %s\n\nGenerate the SQL query:", s.UserQuery)
	if s.Intent != "" {
		userPrompt = fmt.Sprintf("User Query: %s\nDetected Intent: %s\n\nGenerate the SQL query:", s.UserQuery, s.Intent)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	response, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		g.logger.Printf("[QUERY_GENERATOR] Error: %v", err)
		s.ErrorMessage = fmt.Sprintf("Query generation failed: %v", err)
		return s
	}

	s.SQLQuery = Sanitize(response)
	g.logger.Printf("[QUERY_GENERATOR] Generated query: %s", s.SQLQuery)
	return s
}

// Sanitize strips markdown fences and guarantees semicolon termination.
// The model returns untrusted text; this is shape cleanup, not validation.
func Sanitize(raw string) string {
	sql := fencePattern.ReplaceAllString(strings.TrimSpace(raw), "")
	sql = strings.TrimSpace(sql)
	if sql != "" && !strings.HasSuffix(sql, ";") {
		sql += ";"
	}
	return sql
}

func head(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
