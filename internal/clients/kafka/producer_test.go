package kafka

import (
	"context"
	"earn-server/internal/observability"
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

func TestPublishEvent(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, observability.NewNopLogger())

	err := p.PublishEvent(context.Background(), EventMessage{
		ID:     "evt-1",
		Type:   "withdrawal",
		UserID: "42",
		Data:   json.RawMessage(`{"amount":"5"}`),
	})

	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("withdrawal"), msg.Headers[0].Value)

	var decoded EventMessage
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.JSONEq(t, `{"amount":"5"}`, string(decoded.Data))
}

func TestPublishEvent_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, observability.NewNopLogger())

	err := p.PublishEvent(context.Background(), EventMessage{ID: "evt-1", Type: "referral", UserID: "1", Data: json.RawMessage(`{}`)})

	assert.ErrorContains(t, err, "leader not available")
}
