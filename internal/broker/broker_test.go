package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"petcare-store/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishOrderCreatedKeysByOrder(t *testing.T) {
	w := &fakeWriter{}
	pub := NewEventPublisher(&Producer{writer: w, logger: zap.NewNop()})

	event := &models.OrderCreatedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeOrderCreated),
		OrderID:   "65f000000000000000000001",
		ItemCount: 2,
	}
	require.NoError(t, pub.PublishOrderCreated(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-65f000000000000000000001", string(w.msgs[0].Key))
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, models.EventTypeOrderCreated, string(w.msgs[0].Headers[0].Value))

	var decoded models.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, 2, decoded.ItemCount)
}

func TestPublishWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	pub := NewEventPublisher(&Producer{writer: w, logger: zap.NewNop()})

	err := pub.PublishOrderPaid(context.Background(), &models.OrderPaidEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeOrderPaid),
		OrderID:   "x",
	})
	assert.ErrorContains(t, err, "broker down")
}

func TestHandleMessageRoutesPaymentVerified(t *testing.T) {
	h := &EventHandler{logger: zap.NewNop()}

	var got *models.PaymentVerifiedEvent
	h.OnPaymentVerified(func(ctx context.Context, e *models.PaymentVerifiedEvent) error {
		got = e
		return nil
	})

	payload, err := json.Marshal(models.PaymentVerifiedEvent{
		BaseEvent:        models.NewBaseEvent(models.EventTypePaymentVerified),
		OrderID:          "65f000000000000000000002",
		GatewayPaymentID: "pay_1",
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	require.NotNil(t, got)
	assert.Equal(t, "pay_1", got.GatewayPaymentID)
}

func TestHandleMessageIgnoresOtherEvents(t *testing.T) {
	h := &EventHandler{logger: zap.NewNop()}
	h.OnPaymentVerified(func(ctx context.Context, e *models.PaymentVerifiedEvent) error {
		t.Fatal("should not be called")
		return nil
	})

	for _, et := range []string{models.EventTypeOrderCreated, "SOMETHING_ELSE"} {
		payload, _ := json.Marshal(models.NewBaseEvent(et))
		assert.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	h := &EventHandler{logger: zap.NewNop()}
	assert.Error(t, h.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")}))
}
