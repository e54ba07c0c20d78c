package response

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/state"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *stubProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	return p.reply, p.err
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func sampleRows() ([]string, []map[string]any) {
	columns := []string{"Product_Name", "Category", "Price"}
	rows := []map[string]any{
		{"Product_Name": "Thermal Jacket", "Category": "Clothing", "Price": "89.90"},
		{"Product_Name": "Wool Beanie", "Category": "Clothing", "Price": "14.99"},
	}
	return columns, rows
}

func TestFormatterFailedStateReturnsApology(t *testing.T) {
	f := NewFormatter(&stubProvider{reply: "should never be used"}, discard())

	s := state.New("warm clothes", "s1")
	s.ErrorMessage = "Query execution failed: relation does not exist"

	f.Run(context.Background(), s)

	if s.FormattedResponse != constant.RecommendationApology {
		t.Errorf("failed pipeline must yield the apology, got %q", s.FormattedResponse)
	}
}

func TestFormatterUsesLLMReply(t *testing.T) {
	f := NewFormatter(&stubProvider{reply: "Here are two great options for winter!"}, discard())

	s := state.New("warm clothes", "s1")
	s.ResultColumns, s.QueryResults = sampleRows()

	f.Run(context.Background(), s)

	if s.FormattedResponse != "Here are two great options for winter!" {
		t.Errorf("unexpected response %q", s.FormattedResponse)
	}
}

func TestFormatterFallsBackOnProviderError(t *testing.T) {
	f := NewFormatter(&stubProvider{err: errors.New("provider down")}, discard())

	s := state.New("warm clothes", "s1")
	s.ResultColumns, s.QueryResults = sampleRows()

	f.Run(context.Background(), s)

	if !strings.HasPrefix(s.FormattedResponse, "Found 2 products:\n\n") {
		t.Fatalf("expected deterministic fallback, got %q", s.FormattedResponse)
	}
	if !strings.Contains(s.FormattedResponse, "1. Thermal Jacket") {
		t.Errorf("fallback missing first product: %q", s.FormattedResponse)
	}
	if !strings.Contains(s.FormattedResponse, "   Category: Clothing") {
		t.Errorf("fallback missing category line: %q", s.FormattedResponse)
	}
	if !strings.Contains(s.FormattedResponse, "   Price: $14.99") {
		t.Errorf("fallback missing price line: %q", s.FormattedResponse)
	}
}

func TestFallback(t *testing.T) {
	t.Run("deterministic for identical inputs", func(t *testing.T) {
		columns, rows := sampleRows()
		first := Fallback(columns, rows)
		second := Fallback(columns, rows)
		if first != second {
			t.Error("fallback output differs between identical calls")
		}
	})

	t.Run("empty results", func(t *testing.T) {
		got := Fallback(nil, nil)
		if got != "Found 0 products:\n\n" {
			t.Errorf("Fallback(nil, nil) = %q", got)
		}
	})

	t.Run("caps at five products", func(t *testing.T) {
		var rows []map[string]any
		for i := 0; i < 8; i++ {
			rows = append(rows, map[string]any{"Product_Name": "Item", "Price": "1.00"})
		}
		got := Fallback([]string{"Product_Name", "Price"}, rows)
		if !strings.HasPrefix(got, "Found 8 products:\n\n") {
			t.Fatalf("count must reflect all rows: %q", got)
		}
		if strings.Contains(got, "6. ") {
			t.Errorf("more than five products listed: %q", got)
		}
	})

	t.Run("missing name column falls back to first column", func(t *testing.T) {
		got := Fallback([]string{"title"}, []map[string]any{{"title": "Gizmo"}})
		if !strings.Contains(got, "1. Gizmo") {
			t.Errorf("expected first column value, got %q", got)
		}
	})
}
