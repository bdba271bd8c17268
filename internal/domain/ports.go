package domain

import "time"

// EventType определяет тип доменного события.
type EventType string

const (
	EventTypeProductCreated EventType = "product.created"
	EventTypeProductUpdated EventType = "product.updated"
	EventTypeProductDeleted EventType = "product.deleted"

	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDeleted       EventType = "order.deleted"
)

const (
	AggregateProduct = "product"
	AggregateOrder   = "order"
)

// Event описывает уведомление о состоявшемся изменении каталога или заказа.
type Event struct {
	Type          EventType
	AggregateType string
	AggregateID   string
	OccurredAt    time.Time
	// Payload сериализуется публикатором как есть; для удаления может быть nil.
	Payload any
}

// EventPublisher публикует доменные события наружу (Kafka).
type EventPublisher interface {
	Publish(event Event) error
}
