package ports

import "context"

// Tipos de evento de pedidos publicados tras el commit.
const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher define el puerto de salida para eventos de dominio (RabbitMQ, Kafka o no-op).
// key se usa como routing/partition key (normalmente el ID del pedido).
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
	Close() error
}

// NopPublisher descarta los eventos. Se usa cuando EVENTS_BROKER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
