package intent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/state"
)

// Intent labels
const (
	IntentSemanticSearch = "semantic_search"
	IntentCategoryBrowse = "category_browse"
	IntentProductLookup  = "product_lookup"
	IntentFollowUp       = "follow_up"
)

type normalizedIntent struct {
	CleanQuery string   `json:"clean_query"`
	Intent     string   `json:"intent"`
	Keywords   []string `json:"keywords"`
}

// Normalizer rewrites vague queries into explicit ones. It is a best-effort
// stage: a provider failure or unparseable payload passes the raw query
// through unchanged and never fails the pipeline.
type Normalizer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewNormalizer(llmProvider llm.LLMProvider, logger *log.Logger) *Normalizer {
	return &Normalizer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (n *Normalizer) Run(ctx context.Context, s *state.State, history []llm.Message) *state.State {
	if s.Failed() {
		return s
	}

	n.logger.Printf("[INTENT_NORMALIZER] Analyzing user intent...")

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.IntentDetectionPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: "User Query: " + s.UserQuery + "\nReturn JSON:"})

	response, err := n.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		n.logger.Printf("[INTENT_NORMALIZER] Error: %v (passing raw query through)", err)
		return s
	}

	parsed, err := parseIntent(response)
	if err != nil {
		n.logger.Printf("[INTENT_NORMALIZER] Unparseable payload: %v (passing raw query through)", err)
		return s
	}

	if parsed.CleanQuery != "" {
		s.UserQuery = parsed.CleanQuery
	}
	s.Intent = parsed.Intent
	s.Keywords = parsed.Keywords

	n.logger.Printf("[INTENT_NORMALIZER] Clean query: %s (intent: %s)", s.UserQuery, s.Intent)
	return s
}

// parseIntent tolerates fenced or prose-wrapped JSON by extracting the first
// balanced object from the response.
func parseIntent(response string) (*normalizedIntent, error) {
	raw := extractJSON(response)

	var parsed normalizedIntent
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	switch parsed.Intent {
	case IntentSemanticSearch, IntentCategoryBrowse, IntentProductLookup, IntentFollowUp:
	default:
		parsed.Intent = ""
	}
	return &parsed, nil
}

func extractJSON(response string) string {
	trimmed := strings.TrimSpace(response)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
