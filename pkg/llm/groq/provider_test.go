package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sparkmart-ai-be/pkg/llm"
)

func TestChat(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hi there!"}},
			},
		})
	}))
	defer server.Close()

	p := NewGroqProvider("test-key", "llama-3.1-8b-instant", server.URL)

	reply, err := p.Chat(context.Background(),
		[]llm.Message{
			{Role: "system", Content: "be brief"},
			{Role: "model", Content: "earlier reply"},
			{Role: "user", Content: "hello"},
		},
		llm.WithTemperature(0.0),
	)
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("reply = %q", reply)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody.Model != "llama-3.1-8b-instant" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.0 {
		t.Errorf("temperature = %v", gotBody.Temperature)
	}
	if gotBody.Messages[1].Role != "assistant" {
		t.Errorf("model role not mapped to assistant: %q", gotBody.Messages[1].Role)
	}
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth_error"}}`))
	}))
	defer server.Close()

	p := NewGroqProvider("bad-key", "llama-3.1-8b-instant", server.URL)

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestChatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	p := NewGroqProvider("key", "model", server.URL)

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestGenerateDelegatesToChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "done"}},
			},
		})
	}))
	defer server.Close()

	p := NewGroqProvider("key", "model", server.URL)

	reply, err := p.Generate(context.Background(), "one-shot prompt")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if reply != "done" {
		t.Errorf("reply = %q", reply)
	}
}
