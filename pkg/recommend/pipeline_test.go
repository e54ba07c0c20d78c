package recommend

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/internal/repository/memory"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/execute"
	"sparkmart-ai-be/pkg/recommend/intent"
	"sparkmart-ai-be/pkg/recommend/query"
	"sparkmart-ai-be/pkg/recommend/response"
	"sparkmart-ai-be/pkg/recommend/schema"
	"sparkmart-ai-be/pkg/recommend/validate"
)

// scriptedProvider answers each pipeline stage by sniffing the final user
// message, so call ordering does not matter.
type scriptedProvider struct {
	intentJSON string
	sqlReply   string
	formatted  string
}

func (p *scriptedProvider) Chat(_ context.Context, messages []llm.Message, _ ...llm.Option) (string, error) {
	last := messages[len(messages)-1].Content
	switch {
	case strings.Contains(last, "Return JSON:"):
		return p.intentJSON, nil
	case strings.Contains(last, "Generate the SQL query:"):
		return p.sqlReply, nil
	default:
		return p.formatted, nil
	}
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakeCatalog struct {
	columns    []string
	categories []string
	samples    []string
	rows       []map[string]any
	schemaErr  error
	queryErr   error
}

func (f *fakeCatalog) ListTables(context.Context) ([]string, error) { return nil, nil }
func (f *fakeCatalog) ListColumns(context.Context, string) ([]string, error) {
	return f.columns, f.schemaErr
}
func (f *fakeCatalog) DistinctValues(context.Context, string, string, int) ([]string, error) {
	return f.categories, f.schemaErr
}
func (f *fakeCatalog) SampleValues(context.Context, string, string, int) ([]string, error) {
	return f.samples, f.schemaErr
}
func (f *fakeCatalog) Query(context.Context, string) ([]string, []map[string]any, error) {
	if f.queryErr != nil {
		return nil, nil, f.queryErr
	}
	return f.columns, f.rows, nil
}
func (f *fakeCatalog) ReplaceTable(context.Context, string, []string, [][]string) error {
	return nil
}
func (f *fakeCatalog) Truncate(context.Context, string) error { return nil }

func newTestPipeline(provider llm.LLMProvider, catalog *fakeCatalog, sessions *memory.SessionRepository) *Pipeline {
	logger := log.New(io.Discard, "", 0)
	return NewPipeline(Config{
		Inspector:  schema.NewInspector(catalog, "Ecommerce_Data", logger),
		Normalizer: intent.NewNormalizer(provider, logger),
		Generator:  query.NewGenerator(provider, "Ecommerce_Data", logger),
		Validator:  validate.NewValidator(logger),
		Executor:   execute.NewExecutor(catalog, logger),
		Formatter:  response.NewFormatter(provider, logger),
		Sessions:   sessions,
		Logger:     logger,
	})
}

func healthyCatalog() *fakeCatalog {
	return &fakeCatalog{
		columns:    []string{"Product_Name", "Category", "Price"},
		categories: []string{"Clothing", "Electronics"},
		samples:    []string{"Thermal Jacket", "Wool Beanie"},
		rows: []map[string]any{
			{"Product_Name": "Thermal Jacket", "Category": "Clothing", "Price": "89.90"},
			{"Product_Name": "Wool Beanie", "Category": "Clothing", "Price": "14.99"},
		},
	}
}

func TestPipelineHappyPath(t *testing.T) {
	provider := &scriptedProvider{
		intentJSON: `{"clean_query": "warm winter clothing", "intent": "semantic_search", "keywords": ["warm", "winter"]}`,
		sqlReply:   "```sql\nSELECT * FROM \"Ecommerce_Data\" WHERE \"Category\" = 'Clothing' LIMIT 10\n```",
		formatted:  "Two cozy picks for winter: the Thermal Jacket and the Wool Beanie!",
	}
	sessions := memory.NewSessionRepository(time.Hour)
	p := newTestPipeline(provider, healthyCatalog(), sessions)

	result := p.Run(context.Background(), "something warm for winter", "session-1", nil)

	if result.Failed {
		t.Fatalf("expected success, got failed result %q", result.Reply)
	}
	if result.Reply != provider.formatted {
		t.Errorf("unexpected reply %q", result.Reply)
	}
	if !strings.HasSuffix(result.SQLQuery, ";") {
		t.Errorf("generated SQL not semicolon-terminated: %q", result.SQLQuery)
	}
	if result.ResultCount != 2 {
		t.Errorf("expected 2 results, got %d", result.ResultCount)
	}

	sess, err := sessions.Get(context.Background(), "session-1")
	if err != nil || sess == nil {
		t.Fatalf("session not saved: %v", err)
	}
	if len(sess.Candidates) != 2 || sess.Candidates[0].Name != "Thermal Jacket" {
		t.Errorf("candidates not remembered: %+v", sess.Candidates)
	}
	if sess.LastRoute != "recommendation" {
		t.Errorf("last route = %q", sess.LastRoute)
	}
}

func TestPipelineSchemaFaultYieldsApology(t *testing.T) {
	provider := &scriptedProvider{
		intentJSON: `{"clean_query": "shoes", "intent": "product_lookup", "keywords": ["shoes"]}`,
		sqlReply:   `SELECT * FROM "Ecommerce_Data" LIMIT 10;`,
		formatted:  "should not be used",
	}
	catalog := healthyCatalog()
	catalog.schemaErr = errors.New("connection refused")
	sessions := memory.NewSessionRepository(time.Hour)
	p := newTestPipeline(provider, catalog, sessions)

	result := p.Run(context.Background(), "running shoes", "session-2", nil)

	if !result.Failed {
		t.Fatal("expected failed result")
	}
	if result.Reply != constant.RecommendationApology {
		t.Errorf("failed run must apologize, got %q", result.Reply)
	}
	if result.ResultCount != 0 {
		t.Errorf("failed run must carry no results, got %d", result.ResultCount)
	}
}

// slowProvider delays every call so the intent analysis is still in flight
// when the schema inspector finishes.
type slowProvider struct {
	inner llm.LLMProvider
	delay time.Duration
}

func (p *slowProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	time.Sleep(p.delay)
	return p.inner.Chat(ctx, messages, opts...)
}

func (p *slowProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// The opening stages run concurrently on isolated states; a schema fault
// landing while the normalizer is still mid-call must stay race-free and
// still short-circuit to the apology.
func TestPipelineSchemaFaultDuringSlowIntentAnalysis(t *testing.T) {
	scripted := &scriptedProvider{
		intentJSON: `{"clean_query": "warm clothes", "intent": "semantic_search", "keywords": ["warm"]}`,
		sqlReply:   "should not be used",
		formatted:  "should not be used",
	}
	provider := &slowProvider{inner: scripted, delay: 20 * time.Millisecond}
	catalog := healthyCatalog()
	catalog.schemaErr = errors.New("connection refused")
	sessions := memory.NewSessionRepository(time.Hour)
	p := newTestPipeline(provider, catalog, sessions)

	result := p.Run(context.Background(), "something warm", "session-7", nil)

	if !result.Failed {
		t.Fatal("expected failed result")
	}
	if result.Reply != constant.RecommendationApology {
		t.Errorf("failed run must apologize, got %q", result.Reply)
	}
	if result.SQLQuery != "" {
		t.Errorf("synthesis must not run after a schema fault, got %q", result.SQLQuery)
	}
}

func TestPipelineRejectsDangerousSQL(t *testing.T) {
	provider := &scriptedProvider{
		intentJSON: `{"clean_query": "anything", "intent": "semantic_search", "keywords": []}`,
		sqlReply:   "DROP TABLE \"Ecommerce_Data\";",
		formatted:  "should not be used",
	}
	catalog := healthyCatalog()
	sessions := memory.NewSessionRepository(time.Hour)
	p := newTestPipeline(provider, catalog, sessions)

	result := p.Run(context.Background(), "anything", "session-3", nil)

	if !result.Failed {
		t.Fatal("dangerous SQL must fail the pipeline")
	}
	if result.Reply != constant.RecommendationApology {
		t.Errorf("expected apology, got %q", result.Reply)
	}
}

func TestPipelineUnparseableIntentStillSucceeds(t *testing.T) {
	provider := &scriptedProvider{
		intentJSON: "I think the user wants warm clothes",
		sqlReply:   `SELECT * FROM "Ecommerce_Data" WHERE "Category" = 'Clothing' LIMIT 10;`,
		formatted:  "Here you go!",
	}
	sessions := memory.NewSessionRepository(time.Hour)
	p := newTestPipeline(provider, healthyCatalog(), sessions)

	result := p.Run(context.Background(), "warm clothes", "session-4", nil)

	if result.Failed {
		t.Fatalf("intent parse failure must not fail the pipeline: %q", result.Reply)
	}
	if result.Reply != "Here you go!" {
		t.Errorf("unexpected reply %q", result.Reply)
	}
}
