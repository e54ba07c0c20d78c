package contract

import (
	"context"

	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/repository/specification"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)
	UsedUserIds(ctx context.Context) ([]int, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
