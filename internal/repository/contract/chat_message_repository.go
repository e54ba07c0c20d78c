package contract

import (
	"context"

	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
