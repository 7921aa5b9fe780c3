package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter es lo que KafkaPublisher necesita de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos en un topic. La key del mensaje es el ID del pedido, de modo que
// todos los eventos de un mismo pedido caen en la misma partición y conservan el orden.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
}

// NewKafkaPublisher construye el writer con balanceo por key.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, log)
}

func newKafkaPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{writer: w, log: log.Named("kafka")}
}

// Publish escribe el evento con headers event_type/event_version.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	event := newEvent(eventType, payload, time.Now())
	body, err := encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_version", Value: []byte(event.EventVersion)},
		},
		Time: time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar %s en kafka: %w", eventType, err)
	}
	p.log.Debug().Str("event_id", event.EventID).Str("event_type", eventType).Str("key", key).Msg("evento publicado")
	return nil
}

// Close vacía el buffer del writer y cierra las conexiones.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
