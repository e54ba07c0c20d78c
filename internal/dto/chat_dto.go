package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Route     string    `json:"route,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SendChatRequest carries one user turn. SessionId is optional: a zero id
// starts a new session and the response reports it via IsNewSession.
type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id"`
	Message   string    `json:"message" validate:"required"`
}

type SendChatResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	Reply        string    `json:"reply"`
	Route        string    `json:"route"`
	IsNewSession bool      `json:"is_new_session"`
}

type DeleteSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}
