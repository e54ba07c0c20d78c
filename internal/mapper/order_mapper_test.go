package mapper

import (
	"testing"

	"sparkmart-ai-be/internal/entity"
)

func TestOrderMapperCarriesPaymentMetadata(t *testing.T) {
	m := NewOrderMapper()

	order := &entity.Order{
		OrderId:     "order_ab12cd34ef",
		ProductName: "Thermal Jacket",
		UserId:      10,
		Metadata: map[string]any{
			"payment_token":        "snap-token-123",
			"payment_redirect_url": "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token-123",
		},
	}

	model := m.ToModel(order)
	if len(model.Metadata) == 0 {
		t.Fatal("metadata not serialized onto the model")
	}

	back := m.ToEntity(model)
	if back.Metadata["payment_token"] != "snap-token-123" {
		t.Errorf("payment token lost: %v", back.Metadata)
	}
	if back.Metadata["payment_redirect_url"] == "" {
		t.Errorf("redirect url lost: %v", back.Metadata)
	}
}

func TestOrderMapperNilMetadata(t *testing.T) {
	m := NewOrderMapper()

	model := m.ToModel(&entity.Order{OrderId: "order_1234567890"})
	if model.Metadata != nil {
		t.Errorf("expected empty metadata column, got %s", model.Metadata)
	}

	back := m.ToEntity(model)
	if back.Metadata != nil {
		t.Errorf("expected nil metadata map, got %v", back.Metadata)
	}
}
