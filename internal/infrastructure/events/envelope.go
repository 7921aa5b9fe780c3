// Package events publica eventos de pedidos en RabbitMQ o Kafka con un sobre JSON común.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const eventVersion = "1.0.0"

// Event es el sobre JSON de todo evento publicado.
type Event struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EventVersion string `json:"event_version"`
	Timestamp    string `json:"timestamp"`
	Payload      any    `json:"payload"`
}

func newEvent(eventType string, payload any, now time.Time) Event {
	return Event{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		EventVersion: eventVersion,
		Timestamp:    now.UTC().Format(time.RFC3339),
		Payload:      payload,
	}
}

func encode(e Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serializar evento %s: %w", e.EventType, err)
	}
	return body, nil
}
