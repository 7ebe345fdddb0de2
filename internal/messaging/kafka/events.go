package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"

	// Cart события
	EventTypeCartCheckedOut EventType = "cart.checked_out"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "foodstream.order.events"
	TopicStatusUpdates   = "foodstream.status.updates"
	TopicDeadLetterQueue = "foodstream.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	Status     string                 `json:"status"`
	TotalMinor int64                  `json:"total_minor"`
	ItemCount  int                    `json:"item_count"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// StatusUpdate — входящее обновление статуса заказа от курьерской стороны.
// Применяется к хранилищу заказов через стандартную проверку переходов.
type StatusUpdate struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CourierID string    `json:"courier_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, status string, totalMinor int64, itemCount int) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Status:     status,
		TotalMinor: totalMinor,
		ItemCount:  itemCount,
		Timestamp:  time.Now(),
	}
}
