package kafka

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Topics для Kafka
const (
	TopicCatalogEvents = "val10.catalog.events"
	TopicOrderEvents   = "val10.order.events"
)

// Envelope описывает сообщение, которое уходит в Kafka.
type Envelope struct {
	EventType     domain.EventType `json:"eventType"`
	AggregateType string           `json:"aggregateType"`
	AggregateID   string           `json:"aggregateId"`
	OccurredAt    time.Time        `json:"occurredAt"`
	Payload       any              `json:"payload,omitempty"`
}

// ProductPayload содержит снимок товара в событии каталога.
type ProductPayload struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Sizes       []string  `json:"sizes"`
	Category    string    `json:"category"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderPayload содержит снимок заказа в событии заказа.
type OrderPayload struct {
	ID              string    `json:"_id"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerAddress string    `json:"customerAddress"`
	ProductName     string    `json:"productName"`
	Size            string    `json:"size"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TopicFor возвращает топик по типу агрегата.
func TopicFor(aggregateType string) (string, error) {
	switch aggregateType {
	case domain.AggregateProduct:
		return TopicCatalogEvents, nil
	case domain.AggregateOrder:
		return TopicOrderEvents, nil
	default:
		return "", fmt.Errorf("unknown aggregate type %q", aggregateType)
	}
}

// NewEnvelope переводит доменное событие в формат сообщения.
func NewEnvelope(event domain.Event) *Envelope {
	envelope := &Envelope{
		EventType:     event.Type,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		OccurredAt:    event.OccurredAt,
	}
	if envelope.OccurredAt.IsZero() {
		envelope.OccurredAt = time.Now().UTC()
	}

	switch payload := event.Payload.(type) {
	case domain.Product:
		envelope.Payload = ProductPayload{
			ID:          payload.ID,
			Name:        payload.Name,
			Price:       payload.Price,
			Description: payload.Description,
			Images:      payload.Images,
			Sizes:       payload.Sizes,
			Category:    payload.Category,
			InStock:     payload.InStock,
			CreatedAt:   payload.CreatedAt,
			UpdatedAt:   payload.UpdatedAt,
		}
	case domain.Order:
		envelope.Payload = OrderPayload{
			ID:              payload.ID,
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerAddress: payload.CustomerAddress,
			ProductName:     payload.ProductName,
			Size:            payload.Size,
			TotalPrice:      payload.TotalPrice,
			Status:          string(payload.Status),
			CreatedAt:       payload.CreatedAt,
			UpdatedAt:       payload.UpdatedAt,
		}
	default:
		envelope.Payload = event.Payload
	}
	return envelope
}
