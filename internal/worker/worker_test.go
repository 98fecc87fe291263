package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"petcare-store/internal/broker"
	"petcare-store/internal/models"
	"petcare-store/internal/service"
	"petcare-store/internal/store"
	"petcare-store/internal/util"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	util.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

// sliceSource hands each queued message to the handler once
type sliceSource struct {
	msgs   []kafka.Message
	errs   []error
	closed bool
}

func (s *sliceSource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, m := range s.msgs {
		s.errs = append(s.errs, handler(ctx, m))
	}
	return nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func TestPaymentWorkerMarksOrderPaid(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryStore()
	orders := service.NewOrderService(repo, nil)

	order := &models.Order{
		User:            models.NewID(),
		OrderItems:      models.OrderItems{{Name: "Food", Quantity: 1, Price: decimal.NewFromInt(10), Product: models.NewID()}},
		ShippingAddress: models.ShippingAddress{Address: "1 Main Road", City: "Kolkata", PostalCode: "700001", Country: "India"},
		PaymentMethod:   models.PaymentMethodCOD,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	event := models.PaymentVerifiedEvent{
		BaseEvent:        models.NewBaseEvent(models.EventTypePaymentVerified),
		OrderID:          order.ID,
		GatewayPaymentID: "pay_42",
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	src := &sliceSource{msgs: []kafka.Message{{Value: payload}, {Value: payload}}}
	w := NewPaymentWorker(src, service.NewPaymentReconciler(repo, orders))

	require.NoError(t, w.Start(ctx))
	for _, err := range src.errs {
		assert.NoError(t, err)
	}

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.Equal(t, "pay_42", got.PaymentResult.ID)

	require.NoError(t, w.Stop())
	assert.True(t, src.closed)
}
