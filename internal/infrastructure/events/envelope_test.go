package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("COT", -5*3600))
	e := newEvent("order.created", map[string]any{"order_id": "o1"}, now)

	body, err := encode(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "order.created", got["event_type"])
	assert.Equal(t, "1.0.0", got["event_version"])
	assert.Equal(t, "2026-01-02T08:04:05Z", got["timestamp"], "el timestamp se normaliza a UTC")
	assert.NotEmpty(t, got["event_id"])
	assert.Equal(t, "o1", got["payload"].(map[string]any)["order_id"])
}

func TestEncode_PayloadNoSerializable(t *testing.T) {
	_, err := encode(newEvent("order.created", make(chan int), time.Now()))
	assert.ErrorContains(t, err, "order.created")
}
