package agent

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
)

// Route identifies which agent handles a message.
type Route string

const (
	RouteGeneral        Route = "general"
	RouteRecommendation Route = "recommendation"
	RoutePurchase       Route = "purchase"
	RouteComplaint      Route = "complaint"
)

// Keyword fallbacks, checked in priority order. A message matching both
// complaint and purchase signals is a complaint.
var (
	complaintKeywords = []string{
		"broken", "defective", "refund", "complaint", "damaged",
		"wrong item", "not working", "issue", "problem", "disappointed",
		"return this", "never arrived",
	}
	purchaseKeywords = []string{
		"buy", "purchase", "add to cart", "i'll take", "i will take",
		"checkout", "i want this", "i want to order", "get this one",
		"place an order", "place the order",
	}
	recommendationKeywords = []string{
		"recommend", "suggest", "show me", "looking for", "do you have",
		"categories", "category", "products", "items", "cheapest",
		"price", "tell me about", "what do you sell",
	}
)

// Supervisor classifies each incoming message into exactly one route. The
// model does the classification; when its output cannot be parsed the
// keyword rules decide, so routing never fails.
type Supervisor struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewSupervisor(llmProvider llm.LLMProvider, logger *log.Logger) *Supervisor {
	return &Supervisor{llmProvider: llmProvider, logger: logger}
}

func (s *Supervisor) Route(ctx context.Context, message string, history []llm.Message) Route {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.SupervisorPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	response, err := s.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		s.logger.Printf("[SUPERVISOR] Error: %v, falling back to keyword routing", err)
		return KeywordRoute(message)
	}

	if route, ok := parseRoute(response); ok {
		s.logger.Printf("[SUPERVISOR] Routed to %s", route)
		return route
	}

	s.logger.Printf("[SUPERVISOR] Unparseable route %q, falling back to keyword routing", response)
	return KeywordRoute(message)
}

func parseRoute(response string) (Route, bool) {
	raw := firstJSONObject(response)
	if raw == "" {
		return "", false
	}

	var parsed struct {
		Route string `json:"route"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", false
	}

	switch Route(strings.ToLower(strings.TrimSpace(parsed.Route))) {
	case RouteGeneral:
		return RouteGeneral, true
	case RouteRecommendation:
		return RouteRecommendation, true
	case RoutePurchase:
		return RoutePurchase, true
	case RouteComplaint:
		return RouteComplaint, true
	}
	return "", false
}

// KeywordRoute is the deterministic fallback classifier.
func KeywordRoute(message string) Route {
	lower := strings.ToLower(message)

	for _, kw := range complaintKeywords {
		if strings.Contains(lower, kw) {
			return RouteComplaint
		}
	}
	for _, kw := range purchaseKeywords {
		if strings.Contains(lower, kw) {
			return RoutePurchase
		}
	}
	for _, kw := range recommendationKeywords {
		if strings.Contains(lower, kw) {
			return RouteRecommendation
		}
	}
	return RouteGeneral
}

// firstJSONObject returns the first balanced {...} in s, or "".
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
