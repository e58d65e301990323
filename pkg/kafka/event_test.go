package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity"`
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("cart.updated", "cart", "cart", "cart-engine", testPayload{LineID: "p1:M", Quantity: 2})

	require.NoError(t, err)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "cart.updated", ev.EventType)
	assert.Equal(t, "cart", ev.AggregateID)
	assert.Equal(t, "cart-engine", ev.Source)
	assert.Equal(t, 1, ev.Version)
	assert.WithinDuration(t, time.Now().UTC(), ev.Timestamp, time.Minute)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	ev, err := NewEvent("cart.updated", "cart", "cart", "cart-engine", testPayload{LineID: "p1:M", Quantity: 2})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-1")

	raw, err := ev.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, got.EventID)
	assert.Equal(t, "corr-1", got.CorrelationID)

	var payload testPayload
	require.NoError(t, got.UnmarshalData(&payload))
	assert.Equal(t, "p1:M", payload.LineID)
	assert.Equal(t, 2, payload.Quantity)
}

func TestUnmarshalEvent_Garbage(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{{nope"))
	assert.Error(t, err)
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}
