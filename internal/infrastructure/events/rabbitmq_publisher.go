package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/bookstore-api/internal/application/ports"
	"github.com/jhoicas/bookstore-api/pkg/logger"
)

const (
	exchangeType = "topic"

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	confirmTimeout = 5 * time.Second
)

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

// confirmChannel es la parte del canal AMQP que usa el publisher.
type confirmChannel interface {
	// PublishConfirmed publica y espera el ack del broker.
	PublishConfirmed(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (bool, error)
	IsClosed() bool
	Close() error
}

// RabbitMQPublisher publica en un exchange topic con publisher confirms.
// El routing key es el tipo de evento (order.created, order.cancelled, ...).
// Si el broker cierra el canal, el siguiente intento abre uno nuevo sobre la misma conexión.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	open     func() (confirmChannel, error)
	exchange string
	log      *logger.Logger

	mu      sync.Mutex
	channel confirmChannel
}

// NewRabbitMQPublisher conecta, declara el exchange (durable) y activa confirms.
func NewRabbitMQPublisher(url, exchange string, log *logger.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}
	open := func() (confirmChannel, error) { return openConfirmChannel(conn, exchange) }
	p, err := newRabbitMQPublisher(open, exchange, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	p.log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return p, nil
}

func newRabbitMQPublisher(open func() (confirmChannel, error), exchange string, log *logger.Logger) (*RabbitMQPublisher, error) {
	channel, err := open()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RabbitMQPublisher{open: open, channel: channel, exchange: exchange, log: log.Named("rabbitmq")}, nil
}

// Publish serializa el evento y lo publica con reintentos y backoff exponencial.
// key viaja como header "key"; el routing key es eventType.
func (p *RabbitMQPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	event := newEvent(eventType, payload, time.Now())
	body, err := encode(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Body:         body,
		Headers: amqp.Table{
			"event_type":    event.EventType,
			"event_version": event.EventVersion,
			"key":           key,
		},
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, maxBackoff)
			}
		}

		channel, err := p.currentChannel()
		if err != nil {
			lastErr = err
			p.log.Warn().Err(err).Int("attempt", attempt+1).Msg("reabrir canal, reintentando")
			continue
		}

		msg.Timestamp = time.Now()
		acked, err := channel.PublishConfirmed(ctx, p.exchange, eventType, msg)
		switch {
		case err != nil:
			lastErr = err
		case !acked:
			lastErr = errors.New("evento no confirmado por el broker")
		default:
			p.log.Debug().Str("event_id", event.EventID).Str("event_type", eventType).Str("key", key).Msg("evento publicado")
			return nil
		}
		p.log.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("publicar evento, reintentando")
	}
	return fmt.Errorf("publicar %s tras %d intentos: %w", eventType, maxRetries, lastErr)
}

// currentChannel devuelve el canal vigente o abre otro si el broker lo cerró.
func (p *RabbitMQPublisher) currentChannel() (confirmChannel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}
	channel, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("reabrir canal: %w", err)
	}
	p.log.Info().Msg("canal RabbitMQ reabierto")
	p.channel = channel
	return channel, nil
}

// Close cierra canal y conexión.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil && !p.channel.IsClosed() {
		if err := p.channel.Close(); err != nil {
			p.log.Warn().Err(err).Msg("cerrar canal")
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// amqpChannel adapta *amqp.Channel con confirms activados.
type amqpChannel struct {
	ch *amqp.Channel
}

func openConfirmChannel(conn *amqp.Connection, exchange string) (confirmChannel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declarar exchange: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("activar publisher confirms: %w", err)
	}
	return amqpChannel{ch: ch}, nil
}

func (c amqpChannel) PublishConfirmed(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (bool, error) {
	confirm, err := c.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, false, false, msg)
	if err != nil {
		return false, err
	}
	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()
	return confirm.WaitContext(waitCtx)
}

func (c amqpChannel) IsClosed() bool { return c.ch.IsClosed() }
func (c amqpChannel) Close() error   { return c.ch.Close() }
