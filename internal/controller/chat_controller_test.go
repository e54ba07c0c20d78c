package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"sparkmart-ai-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubChatService struct {
	gotSessionId uuid.UUID
}

func (s *stubChatService) CreateSession(context.Context) (*dto.CreateSessionResponse, error) {
	return &dto.CreateSessionResponse{Id: uuid.New()}, nil
}

func (s *stubChatService) GetAllSessions(context.Context) ([]*dto.GetAllSessionsResponse, error) {
	return nil, nil
}

func (s *stubChatService) GetChatHistory(context.Context, uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	return nil, nil
}

func (s *stubChatService) SendChat(_ context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	s.gotSessionId = req.SessionId
	return &dto.SendChatResponse{SessionId: req.SessionId, Reply: "ok", Route: "general"}, nil
}

func (s *stubChatService) DeleteSession(context.Context, *dto.DeleteSessionRequest) error {
	return nil
}

func newChatApp(svc *stubChatService) *fiber.App {
	app := fiber.New()
	NewChatController(svc, nil).RegisterRoutes(app.Group("/api"))
	return app
}

func sendChatRequest(t *testing.T, app *fiber.App, payload map[string]string, headers map[string]string) int {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/api/chat/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestSendChatSessionIdSources(t *testing.T) {
	t.Run("header carries the session id", func(t *testing.T) {
		svc := &stubChatService{}
		app := newChatApp(svc)
		id := uuid.New()

		status := sendChatRequest(t, app, map[string]string{"message": "hi"},
			map[string]string{"Session-Id": id.String()})

		if status != fiber.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if svc.gotSessionId != id {
			t.Errorf("service saw session %s, want %s", svc.gotSessionId, id)
		}
	})

	t.Run("body session id wins over header", func(t *testing.T) {
		svc := &stubChatService{}
		app := newChatApp(svc)
		bodyId := uuid.New()

		status := sendChatRequest(t, app,
			map[string]string{"message": "hi", "session_id": bodyId.String()},
			map[string]string{"Session-Id": uuid.New().String()})

		if status != fiber.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if svc.gotSessionId != bodyId {
			t.Errorf("service saw session %s, want %s", svc.gotSessionId, bodyId)
		}
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		svc := &stubChatService{}
		app := newChatApp(svc)

		status := sendChatRequest(t, app, map[string]string{"message": "hi"},
			map[string]string{"Session-Id": "not-a-uuid"})

		if status != fiber.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
	})

	t.Run("no session id starts a fresh session", func(t *testing.T) {
		svc := &stubChatService{}
		app := newChatApp(svc)

		status := sendChatRequest(t, app, map[string]string{"message": "hi"}, nil)

		if status != fiber.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if svc.gotSessionId != uuid.Nil {
			t.Errorf("expected zero session id, got %s", svc.gotSessionId)
		}
	})
}
