package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}
func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher_SobreYKey(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, nil)

	err := p.Publish(context.Background(), "order.created", "order-1", map[string]any{"order_id": "order-1"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.created", string(msg.Headers[0].Value))

	var env struct {
		EventID      string         `json:"event_id"`
		EventType    string         `json:"event_type"`
		EventVersion string         `json:"event_version"`
		Payload      map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "order.created", env.EventType)
	assert.Equal(t, eventVersion, env.EventVersion)
	assert.Equal(t, "order-1", env.Payload["order_id"])
}

func TestKafkaPublisher_ErrorDelWriter(t *testing.T) {
	p := newKafkaPublisher(&recordingWriter{err: errors.New("broker caído")}, nil)

	err := p.Publish(context.Background(), "order.cancelled", "order-1", nil)
	assert.ErrorContains(t, err, "broker caído")
}
