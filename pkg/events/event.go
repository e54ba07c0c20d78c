package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_PLACED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeOrderPlaced     = "ORDER_PLACED"
	TypeComplaintFiled  = "COMPLAINT_FILED"
	TypeCatalogReplaced = "CATALOG_REPLACED"
)

func NewOrderPlaced(orderID, productName string, userID int) Event {
	return BaseEvent{
		Type: TypeOrderPlaced,
		Data: map[string]interface{}{
			"order_id":     orderID,
			"product_name": productName,
			"user_id":      userID,
		},
		OccurredAt: time.Now(),
	}
}

func NewComplaintFiled(orderID, complaintText string, fileURLs []string) Event {
	return BaseEvent{
		Type: TypeComplaintFiled,
		Data: map[string]interface{}{
			"order_id":       orderID,
			"complaint_text": complaintText,
			"file_urls":      fileURLs,
		},
		OccurredAt: time.Now(),
	}
}

func NewCatalogReplaced(table string, rowCount int) Event {
	return BaseEvent{
		Type: TypeCatalogReplaced,
		Data: map[string]interface{}{
			"table":     table,
			"row_count": rowCount,
		},
		OccurredAt: time.Now(),
	}
}
