package store

import "context"

// Product is a lightweight view of a catalog row kept in session state so
// follow-up turns ("tell me more about it", "I'll take the first one") can
// resolve references without re-querying the catalog.
type Product struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    string `json:"price,omitempty"`
}

// Session represents the active chat session state kept between turns.
// The durable conversation log lives in the chat_messages table; this is
// only the fast-moving context the agents need on the next turn.
type Session struct {
	ID          string    `json:"id"` // chat session id
	LastQuery   string    `json:"last_query"`
	LastRoute   string    `json:"last_route"`
	Candidates  []Product `json:"candidates"`    // products shown by the last recommendation turn
	LastOrderID string    `json:"last_order_id"` // set by the purchase agent
}

// SessionStore is the conversational-memory partition, keyed by session id.
// Implementations: in-process cache (single replica) and Redis (shared).
// Get returns (nil, nil) on a miss; a missing session is not an error.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
