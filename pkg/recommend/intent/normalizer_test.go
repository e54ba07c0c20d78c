package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/state"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.reply, s.err
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNormalizerRewritesQuery(t *testing.T) {
	provider := &stubProvider{
		reply: `{"clean_query": "winter jackets", "intent": "category_browse", "keywords": ["jacket", "winter"]}`,
	}
	n := NewNormalizer(provider, discard())

	s := state.New("something warm for winter", "sess-1")
	n.Run(context.Background(), s, nil)

	if s.UserQuery != "winter jackets" {
		t.Errorf("UserQuery = %q, want %q", s.UserQuery, "winter jackets")
	}
	if s.Intent != IntentCategoryBrowse {
		t.Errorf("Intent = %q, want %q", s.Intent, IntentCategoryBrowse)
	}
	if len(s.Keywords) != 2 {
		t.Errorf("Keywords = %v", s.Keywords)
	}
}

func TestNormalizerTakesFencedJSON(t *testing.T) {
	provider := &stubProvider{
		reply: "Here you go:\n```json\n{\"clean_query\": \"yoga mats\", \"intent\": \"product_lookup\"}\n```",
	}
	n := NewNormalizer(provider, discard())

	s := state.New("do you sell yoga mats", "sess-1")
	n.Run(context.Background(), s, nil)

	if s.UserQuery != "yoga mats" {
		t.Errorf("UserQuery = %q, want %q", s.UserQuery, "yoga mats")
	}
}

func TestNormalizerPassesThroughOnProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	n := NewNormalizer(provider, discard())

	s := state.New("cheap electronics", "sess-1")
	n.Run(context.Background(), s, nil)

	if s.UserQuery != "cheap electronics" {
		t.Errorf("UserQuery = %q, want raw query", s.UserQuery)
	}
	if s.Failed() {
		t.Error("normalizer must never fail the pipeline")
	}
}

func TestNormalizerPassesThroughOnGarbage(t *testing.T) {
	provider := &stubProvider{reply: "sorry, I can't help with that"}
	n := NewNormalizer(provider, discard())

	s := state.New("cheap electronics", "sess-1")
	n.Run(context.Background(), s, nil)

	if s.UserQuery != "cheap electronics" {
		t.Errorf("UserQuery = %q, want raw query", s.UserQuery)
	}
}

func TestNormalizerDropsUnknownIntent(t *testing.T) {
	provider := &stubProvider{
		reply: `{"clean_query": "laptops", "intent": "world_domination"}`,
	}
	n := NewNormalizer(provider, discard())

	s := state.New("laptops", "sess-1")
	n.Run(context.Background(), s, nil)

	if s.Intent != "" {
		t.Errorf("Intent = %q, want empty for unknown label", s.Intent)
	}
}

func TestNormalizerSkipsFailedState(t *testing.T) {
	provider := &stubProvider{reply: `{"clean_query": "x"}`}
	n := NewNormalizer(provider, discard())

	s := state.New("query", "sess-1")
	s.ErrorMessage = "upstream failure"
	n.Run(context.Background(), s, nil)

	if s.UserQuery != "query" {
		t.Errorf("failed state must pass through untouched, got %q", s.UserQuery)
	}
}
