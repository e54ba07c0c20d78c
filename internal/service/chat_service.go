package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/internal/dto"
	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/repository/contract"
	"sparkmart-ai-be/internal/repository/specification"
	"sparkmart-ai-be/internal/repository/unitofwork"
	"sparkmart-ai-be/pkg/agent"
	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/recommend"
	"sparkmart-ai-be/pkg/recommend/execute"
	"sparkmart-ai-be/pkg/recommend/intent"
	"sparkmart-ai-be/pkg/recommend/query"
	"sparkmart-ai-be/pkg/recommend/response"
	"sparkmart-ai-be/pkg/recommend/schema"
	"sparkmart-ai-be/pkg/recommend/validate"
	"sparkmart-ai-be/pkg/store"

	"github.com/google/uuid"
)

const (
	historyLimit    = 10
	sessionTitleMax = 50
	greetingMessage = "Hi! I'm SparkMart Ai. I can recommend products, place orders, and help with any issues. What are you looking for today?"
	untitledSession = "Unnamed session"
)

type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
}

// chatService wires the supervisor, the three conversational agents and the
// recommendation pipeline behind a single chat endpoint.
type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   store.SessionStore
	log        logger.ILogger

	supervisor     *agent.Supervisor
	generalAgent   *agent.GeneralAgent
	purchaseAgent  *agent.PurchaseAgent
	complaintAgent *agent.ComplaintAgent
	pipeline       *recommend.Pipeline
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	catalogRepo contract.CatalogRepository,
	sessions store.SessionStore,
	orderService IOrderService,
	catalogTable string,
	log logger.ILogger,
) IChatService {
	agentLogger := initAgentLogger()

	pipeline := recommend.NewPipeline(recommend.Config{
		Inspector:  schema.NewInspector(catalogRepo, catalogTable, agentLogger),
		Normalizer: intent.NewNormalizer(llmProvider, agentLogger),
		Generator:  query.NewGenerator(llmProvider, catalogTable, agentLogger),
		Validator:  validate.NewValidator(agentLogger),
		Executor:   execute.NewExecutor(catalogRepo, agentLogger),
		Formatter:  response.NewFormatter(llmProvider, agentLogger),
		Sessions:   sessions,
		Logger:     agentLogger,
	})

	return &chatService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		log:            log,
		supervisor:     agent.NewSupervisor(llmProvider, agentLogger),
		generalAgent:   agent.NewGeneralAgent(llmProvider, agentLogger),
		purchaseAgent:  agent.NewPurchaseAgent(llmProvider, orderService, sessions, agentLogger),
		complaintAgent: agent.NewComplaintAgent(llmProvider, orderService, sessions, agentLogger),
		pipeline:       pipeline,
	}
}

func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agents.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[AGENTS] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (cs *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	sess, err := cs.createSession(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: sess.Id}, nil
}

// createSession opens a new session seeded with the greeting message.
func (cs *chatService) createSession(ctx context.Context) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		Title:     untitledSession,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          constant.ChatMessageRoleModel,
		Chat:          greetingMessage,
		Route:         string(agent.RouteGeneral),
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &chatSession, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		resp = append(resp, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return resp, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			Route:     msg.Route,
			CreatedAt: msg.CreatedAt,
		})
	}
	return resp, nil
}

// SendChat runs one conversational turn: route, dispatch, persist both sides.
// A zero session id opens a fresh session first.
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var sess *entity.ChatSession
	isNewSession := false
	if request.SessionId == uuid.Nil {
		created, err := cs.createSession(ctx)
		if err != nil {
			return nil, err
		}
		sess = created
		isNewSession = true
	} else {
		found, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: request.SessionId})
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, fmt.Errorf("session not found")
		}
		sess = found
	}

	history, err := cs.loadHistory(ctx, uow, sess.Id)
	if err != nil {
		return nil, err
	}

	route := cs.supervisor.Route(ctx, request.Message, history)
	sessionKey := sess.Id.String()

	var reply string
	switch route {
	case agent.RouteRecommendation:
		result := cs.pipeline.Run(ctx, request.Message, sessionKey, history)
		reply = result.Reply
	case agent.RoutePurchase:
		reply = cs.purchaseAgent.Handle(ctx, request.Message, sessionKey, history)
	case agent.RouteComplaint:
		reply = cs.complaintAgent.Handle(ctx, request.Message, sessionKey, history)
	default:
		reply = cs.generalAgent.Handle(ctx, request.Message, history)
	}

	if reply == "" {
		reply = constant.EmptyResponseFallback
	}

	if err := cs.persistTurn(ctx, sess, request.Message, reply, string(route)); err != nil {
		cs.log.Error("ChatService", "Failed to persist chat turn", map[string]interface{}{
			"session_id": sessionKey,
			"error":      err.Error(),
		})
	}

	cs.log.Info("ChatService", "Chat turn handled", map[string]interface{}{
		"session_id": sessionKey,
		"route":      string(route),
	})

	return &dto.SendChatResponse{
		SessionId:    sess.Id,
		Reply:        reply,
		Route:        string(route),
		IsNewSession: isNewSession,
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: request.SessionId})
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session not found")
	}

	if err := uow.ChatSessionRepository().Delete(ctx, request.SessionId); err != nil {
		return err
	}

	if err := cs.sessions.Delete(ctx, request.SessionId.String()); err != nil {
		cs.log.Warn("ChatService", "Failed to drop session memory", map[string]interface{}{
			"session_id": request.SessionId.String(),
			"error":      err.Error(),
		})
	}
	return nil
}

// loadHistory returns the most recent messages in chronological order, in
// the shape the LLM providers expect.
func (cs *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: historyLimit},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(chatMessages))
	for i := len(chatMessages) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    chatMessages[i].Role,
			Content: chatMessages[i].Chat,
		})
	}
	return history, nil
}

func (cs *chatService) persistTurn(ctx context.Context, sess *entity.ChatSession, userMessage, reply, route string) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	userMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sess.Id,
		Role:          constant.ChatMessageRoleUser,
		Chat:          userMessage,
		Route:         route,
		CreatedAt:     now,
	}
	modelMsg := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sess.Id,
		Role:          constant.ChatMessageRoleModel,
		Chat:          reply,
		Route:         route,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMsg); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMsg); err != nil {
		return err
	}

	if sess.Title == untitledSession {
		sess.Title = truncateTitle(userMessage)
		if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
			return err
		}
	}

	return uow.Commit()
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleMax {
		return message
	}
	return string(runes[:sessionTitleMax]) + "..."
}
