package mapper

import (
	"encoding/json"

	"sparkmart-ai-be/internal/entity"
	"sparkmart-ai-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	var metadata map[string]any
	if len(o.Metadata) > 0 {
		// Metadata is advisory; a corrupt blob should not fail a lookup.
		_ = json.Unmarshal(o.Metadata, &metadata)
	}

	return &entity.Order{
		OrderId:          o.OrderId,
		ProductName:      o.ProductName,
		UserId:           o.UserId,
		IsComplaint:      o.IsComplaint,
		ComplaintText:    o.ComplaintText,
		ComplaintFileUrl: o.ComplaintFileUrl,
		Metadata:         metadata,
		CreatedAt:        o.CreatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	var metadata datatypes.JSON
	if o.Metadata != nil {
		if data, err := json.Marshal(o.Metadata); err == nil {
			metadata = data
		}
	}

	return &model.Order{
		OrderId:          o.OrderId,
		ProductName:      o.ProductName,
		UserId:           o.UserId,
		IsComplaint:      o.IsComplaint,
		ComplaintText:    o.ComplaintText,
		ComplaintFileUrl: o.ComplaintFileUrl,
		Metadata:         metadata,
		CreatedAt:        o.CreatedAt,
	}
}

func (m *OrderMapper) ToEntities(models []*model.Order) []*entity.Order {
	entities := make([]*entity.Order, len(models))
	for i, o := range models {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
