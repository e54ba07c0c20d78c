package recommend

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend/execute"
	"sparkmart-ai-be/pkg/recommend/intent"
	"sparkmart-ai-be/pkg/recommend/query"
	"sparkmart-ai-be/pkg/recommend/response"
	"sparkmart-ai-be/pkg/recommend/schema"
	"sparkmart-ai-be/pkg/recommend/state"
	"sparkmart-ai-be/pkg/recommend/validate"
	"sparkmart-ai-be/pkg/store"
)

const (
	defaultStageTimeout = 30 * time.Second
)

// Result is what the pipeline hands back to the calling agent.
type Result struct {
	Reply       string
	SQLQuery    string
	ResultCount int
	Failed      bool
}

// Pipeline chains the recommendation stages: schema inspection and intent
// normalization run concurrently, then synthesis, validation, execution and
// formatting run in sequence. Every stage is guarded by the shared failure
// flag, so the first fault short-circuits straight to the apology.
type Pipeline struct {
	inspector    *schema.Inspector
	normalizer   *intent.Normalizer
	generator    *query.Generator
	validator    *validate.Validator
	executor     *execute.Executor
	formatter    *response.Formatter
	sessions     store.SessionStore
	stageTimeout time.Duration
	logger       *log.Logger
}

type Config struct {
	Inspector    *schema.Inspector
	Normalizer   *intent.Normalizer
	Generator    *query.Generator
	Validator    *validate.Validator
	Executor     *execute.Executor
	Formatter    *response.Formatter
	Sessions     store.SessionStore
	StageTimeout time.Duration
	Logger       *log.Logger
}

func NewPipeline(cfg Config) *Pipeline {
	timeout := cfg.StageTimeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	return &Pipeline{
		inspector:    cfg.Inspector,
		normalizer:   cfg.Normalizer,
		generator:    cfg.Generator,
		validator:    cfg.Validator,
		executor:     cfg.Executor,
		formatter:    cfg.Formatter,
		sessions:     cfg.Sessions,
		stageTimeout: timeout,
		logger:       cfg.Logger,
	}
}

// Run executes the full pipeline for one user query. It always returns a
// user-facing reply; internal faults surface as the apology, never an error.
func (p *Pipeline) Run(ctx context.Context, userQuery, sessionID string, history []llm.Message) Result {
	p.logger.Printf("[PIPELINE] Starting recommendation pipeline for session %s", sessionID)

	s := state.New(userQuery, sessionID)

	// Schema inspection and intent normalization are independent, so they
	// run concurrently. Each gets its own state copy; the results merge
	// after both finish, so the goroutines never share mutable fields.
	schemaState := state.New(userQuery, sessionID)
	intentState := state.New(userQuery, sessionID)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		p.inspector.Run(stageCtx, schemaState)
	}()
	go func() {
		defer wg.Done()
		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		p.normalizer.Run(stageCtx, intentState, history)
	}()
	wg.Wait()

	s.UserQuery = intentState.UserQuery
	s.Intent = intentState.Intent
	s.Keywords = intentState.Keywords
	s.AvailableColumns = schemaState.AvailableColumns
	s.AvailableCategories = schemaState.AvailableCategories
	s.SampleProducts = schemaState.SampleProducts
	s.ErrorMessage = schemaState.ErrorMessage

	p.runStage(ctx, func(stageCtx context.Context) {
		p.generator.Run(stageCtx, s, history)
	})
	p.runStage(ctx, func(stageCtx context.Context) {
		p.validator.Run(stageCtx, s)
	})
	p.runStage(ctx, func(stageCtx context.Context) {
		p.executor.Run(stageCtx, s)
	})
	p.runStage(ctx, func(stageCtx context.Context) {
		p.formatter.Run(stageCtx, s)
	})

	p.rememberCandidates(ctx, s)

	if s.Failed() {
		p.logger.Printf("[PIPELINE] Pipeline failed: %s", s.ErrorMessage)
	} else {
		p.logger.Printf("[PIPELINE] Pipeline completed with %d results", len(s.QueryResults))
	}

	return Result{
		Reply:       s.FormattedResponse,
		SQLQuery:    s.SQLQuery,
		ResultCount: len(s.QueryResults),
		Failed:      s.Failed(),
	}
}

func (p *Pipeline) runStage(ctx context.Context, stage func(context.Context)) {
	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()
	stage(stageCtx)
}

// rememberCandidates stores the shown products in the session so the
// purchase agent can resolve "buy the second one" on the next turn.
func (p *Pipeline) rememberCandidates(ctx context.Context, s *state.State) {
	if p.sessions == nil {
		return
	}

	session, err := p.sessions.Get(ctx, s.SessionID)
	if err != nil || session == nil {
		session = &store.Session{ID: s.SessionID}
	}

	session.LastQuery = s.UserQuery
	session.LastRoute = "recommendation"

	if !s.Failed() && len(s.QueryResults) > 0 {
		candidates := make([]store.Product, 0, len(s.QueryResults))
		for _, row := range s.QueryResults {
			candidates = append(candidates, store.Product{
				Name:     fmt.Sprintf("%v", row["Product_Name"]),
				Category: fmt.Sprintf("%v", row["Category"]),
				Price:    fmt.Sprintf("%v", row["Price"]),
			})
		}
		session.Candidates = candidates
	}

	if err := p.sessions.Save(ctx, session); err != nil {
		p.logger.Printf("[PIPELINE] Failed to save session %s: %v", s.SessionID, err)
	}
}
