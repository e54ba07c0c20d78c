package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/store"
)

// PlacedOrder is the outcome of a successful order placement.
type PlacedOrder struct {
	OrderID     string
	UserID      int
	ProductName string
}

// OrderPlacer persists an order for the named product. Implemented by the
// order service; the agent never touches the database directly.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, productName string) (*PlacedOrder, error)
}

// PurchaseAgent resolves which product the user wants, against the products
// shown earlier in the session, and places the order. The model only
// extracts the product name; persistence happens in code.
type PurchaseAgent struct {
	llmProvider llm.LLMProvider
	orders      OrderPlacer
	sessions    store.SessionStore
	logger      *log.Logger
}

func NewPurchaseAgent(llmProvider llm.LLMProvider, orders OrderPlacer, sessions store.SessionStore, logger *log.Logger) *PurchaseAgent {
	return &PurchaseAgent{
		llmProvider: llmProvider,
		orders:      orders,
		sessions:    sessions,
		logger:      logger,
	}
}

func (a *PurchaseAgent) Handle(ctx context.Context, message, sessionID string, history []llm.Message) string {
	session := a.loadSession(ctx, sessionID)

	productName := a.extractProduct(ctx, message, session.Candidates, history)
	if productName == "" {
		a.logger.Printf("[PURCHASE_AGENT] No product resolved for session %s", sessionID)
		return constant.PurchaseAgentApology
	}

	if match := matchCandidate(productName, session.Candidates); match != nil {
		productName = match.Name
	}

	placed, err := a.orders.PlaceOrder(ctx, productName)
	if err != nil {
		a.logger.Printf("[PURCHASE_AGENT] Order placement failed: %v", err)
		return constant.PurchaseAgentApology
	}

	a.logger.Printf("[PURCHASE_AGENT] Placed order %s for %q", placed.OrderID, placed.ProductName)

	session.LastOrderID = placed.OrderID
	session.LastRoute = string(RoutePurchase)
	if err := a.sessions.Save(ctx, session); err != nil {
		a.logger.Printf("[PURCHASE_AGENT] Failed to save session %s: %v", sessionID, err)
	}

	return fmt.Sprintf("Great choice! I've placed your order for %s.\n\n"+
		"Order ID: %s\nUser ID: %d\n\n"+
		"Please keep these IDs for tracking or any future inquiries. "+
		"Is there anything else I can help you with?",
		placed.ProductName, placed.OrderID, placed.UserID)
}

func (a *PurchaseAgent) loadSession(ctx context.Context, sessionID string) *store.Session {
	session, err := a.sessions.Get(ctx, sessionID)
	if err != nil || session == nil {
		return &store.Session{ID: sessionID}
	}
	return session
}

func (a *PurchaseAgent) extractProduct(ctx context.Context, message string, candidates []store.Product, history []llm.Message) string {
	systemPrompt := fmt.Sprintf(constant.PurchaseExtractionPrompt, formatCandidates(candidates))

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	response, err := a.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[PURCHASE_AGENT] Extraction error: %v", err)
		return ""
	}

	raw := firstJSONObject(response)
	if raw == "" {
		return ""
	}

	var parsed struct {
		ProductName string `json:"product_name"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.ProductName)
}

func formatCandidates(candidates []store.Product) string {
	if len(candidates) == 0 {
		return "(no products shown yet)"
	}
	var sb strings.Builder
	for i, p := range candidates {
		fmt.Fprintf(&sb, "%d. %s (%s) - $%s\n", i+1, p.Name, p.Category, p.Price)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func matchCandidate(name string, candidates []store.Product) *store.Product {
	lower := strings.ToLower(name)
	for i := range candidates {
		candidate := strings.ToLower(candidates[i].Name)
		if candidate == lower || strings.Contains(candidate, lower) || strings.Contains(lower, candidate) {
			return &candidates[i]
		}
	}
	return nil
}
