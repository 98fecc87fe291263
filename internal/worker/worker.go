package worker

import (
	"context"

	"petcare-store/internal/broker"
	"petcare-store/internal/service"
	"petcare-store/internal/util"

	"go.uber.org/zap"
)

// MessageSource feeds messages to a handler until ctx is done.
// *broker.Consumer is the Kafka source.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// PaymentWorker applies verified gateway payments to orders
type PaymentWorker struct {
	source       MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewPaymentWorker creates a new payment worker
func NewPaymentWorker(source MessageSource, reconciler *service.PaymentReconciler) *PaymentWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnPaymentVerified(reconciler.HandlePaymentVerified)

	return &PaymentWorker{
		source:       source,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled
func (w *PaymentWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting payment worker")
	return w.source.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *PaymentWorker) Stop() error {
	w.logger.Info("Stopping payment worker")
	return w.source.Close()
}
