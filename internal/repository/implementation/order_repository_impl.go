package implementation

import (
	"context"
	"errors"

	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/mapper"
	"sparkmart-ai-be/internal/model"
	"sparkmart-ai-be/internal/repository/contract"
	"sparkmart-ai-be/internal/repository/specification"

	"gorm.io/gorm"
)

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrderMapper
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrderMapper(),
	}
}

func (r *OrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *entity.Order) error {
	m := r.mapper.ToModel(order)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.ToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var m model.Order
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OrderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var models []*model.Order
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *OrderRepositoryImpl) UsedUserIds(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("user_id IS NOT NULL").
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Order{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
