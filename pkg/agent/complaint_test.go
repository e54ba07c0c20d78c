package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/internal/repository/memory"
	"sparkmart-ai-be/pkg/llm"
)

type fakeRecorder struct {
	gotOrderID string
	gotText    string
	gotURLs    []string
	err        error
}

func (f *fakeRecorder) RecordComplaint(_ context.Context, orderID, complaintText string, fileURLs []string) error {
	f.gotOrderID = orderID
	f.gotText = complaintText
	f.gotURLs = fileURLs
	return f.err
}

func TestExtractFileMarkers(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantURLs  []string
		wantClean string
	}{
		{
			name:      "no markers",
			message:   "my jacket arrived torn",
			wantURLs:  nil,
			wantClean: "my jacket arrived torn",
		},
		{
			name:      "single marker",
			message:   "it's broken [FILE_ATTACHED: https://cdn.local/b/photo.jpg]",
			wantURLs:  []string{"https://cdn.local/b/photo.jpg"},
			wantClean: "it's broken",
		},
		{
			name:      "two markers",
			message:   "see photos [FILE_ATTACHED: https://a/1.jpg] [FILE_ATTACHED: https://a/2.jpg]",
			wantURLs:  []string{"https://a/1.jpg", "https://a/2.jpg"},
			wantClean: "see photos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls, clean := ExtractFileMarkers(tt.message)
			if len(urls) != len(tt.wantURLs) {
				t.Fatalf("urls = %v, want %v", urls, tt.wantURLs)
			}
			for i := range urls {
				if urls[i] != tt.wantURLs[i] {
					t.Errorf("url[%d] = %q, want %q", i, urls[i], tt.wantURLs[i])
				}
			}
			if clean != tt.wantClean {
				t.Errorf("clean = %q, want %q", clean, tt.wantClean)
			}
		})
	}
}

func TestFindOrderID(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "I want to buy the yoga mat"},
		{Role: "assistant", Content: "Order ID: order_ab12cd34ef"},
	}

	if got := findOrderID("complaint about order_ffff000011", nil); got != "order_ffff000011" {
		t.Errorf("message scan = %q", got)
	}
	if got := findOrderID("it arrived broken", history); got != "order_ab12cd34ef" {
		t.Errorf("history scan = %q", got)
	}
	if got := findOrderID("no ids anywhere", nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestComplaintAgentHandle(t *testing.T) {
	sessions := memory.NewSessionRepository(time.Hour)

	t.Run("records complaint with extracted details", func(t *testing.T) {
		recorder := &fakeRecorder{}
		a := NewComplaintAgent(
			&stubProvider{reply: `{"order_id": "order_ab12cd34ef", "complaint_text": "jacket arrived torn"}`},
			recorder, sessions, discard())

		reply := a.Handle(context.Background(), "my jacket arrived torn [FILE_ATTACHED: https://a/1.jpg]", "s1", nil)

		if recorder.gotOrderID != "order_ab12cd34ef" {
			t.Errorf("order id = %q", recorder.gotOrderID)
		}
		if recorder.gotText != "jacket arrived torn" {
			t.Errorf("complaint text = %q", recorder.gotText)
		}
		if len(recorder.gotURLs) != 1 || recorder.gotURLs[0] != "https://a/1.jpg" {
			t.Errorf("file urls = %v", recorder.gotURLs)
		}
		if !strings.Contains(reply, "order_ab12cd34ef") {
			t.Errorf("reply does not confirm the order: %q", reply)
		}
	})

	t.Run("asks for order id when none found", func(t *testing.T) {
		recorder := &fakeRecorder{}
		a := NewComplaintAgent(
			&stubProvider{reply: `{"order_id": "", "complaint_text": "it broke"}`},
			recorder, sessions, discard())

		reply := a.Handle(context.Background(), "it broke", "s-unknown", nil)

		if reply != constant.ComplaintAskOrderID {
			t.Errorf("expected order id prompt, got %q", reply)
		}
		if recorder.gotOrderID != "" {
			t.Error("recorder must not be called without an order id")
		}
	})

	t.Run("unknown order id gets a correction prompt", func(t *testing.T) {
		recorder := &fakeRecorder{err: ErrOrderNotFound}
		a := NewComplaintAgent(
			&stubProvider{reply: `{"order_id": "order_nope000000", "complaint_text": "broken"}`},
			recorder, sessions, discard())

		reply := a.Handle(context.Background(), "broken order_nope000000", "s2", nil)

		if !strings.Contains(reply, "order_nope000000") || !strings.Contains(reply, "double-check") {
			t.Errorf("expected correction prompt, got %q", reply)
		}
	})

	t.Run("regex fallback when extraction misses the id", func(t *testing.T) {
		recorder := &fakeRecorder{}
		a := NewComplaintAgent(
			&stubProvider{reply: `{"order_id": "", "complaint_text": ""}`},
			recorder, sessions, discard())

		a.Handle(context.Background(), "order_ff00ff00aa is damaged", "s3", nil)

		if recorder.gotOrderID != "order_ff00ff00aa" {
			t.Errorf("regex fallback missed the id: %q", recorder.gotOrderID)
		}
		if recorder.gotText != "order_ff00ff00aa is damaged" {
			t.Errorf("complaint text should default to the message: %q", recorder.gotText)
		}
	})
}
