package unitofwork

import (
	"context"

	"sparkmart-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() contract.OrderRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	CatalogRepository() contract.CatalogRepository
}
