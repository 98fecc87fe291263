package service

import (
	"context"
	"fmt"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/store"
	"petcare-store/internal/util"

	"go.uber.org/zap"
)

// PaymentStatusCaptured is the payment result status for a verified payment
const PaymentStatusCaptured = "captured"

// PaymentReconciler marks orders paid when their gateway payment is verified
type PaymentReconciler struct {
	events store.EventLog
	orders *OrderService
	logger *zap.Logger
}

// NewPaymentReconciler creates a new reconciler
func NewPaymentReconciler(events store.EventLog, orders *OrderService) *PaymentReconciler {
	return &PaymentReconciler{
		events: events,
		orders: orders,
		logger: util.GetLogger(),
	}
}

// HandlePaymentVerified marks the event's order paid. Redelivered events
// are skipped. Events naming an unknown order are dropped; other failures
// are returned so the event is retried.
func (r *PaymentReconciler) HandlePaymentVerified(ctx context.Context, event *models.PaymentVerifiedEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentReconciler.HandlePaymentVerified")
	defer span.End()

	processed, err := r.events.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		r.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		util.EventsConsumed.WithLabelValues(event.EventType, "duplicate").Inc()
		return nil
	}

	details := models.PayOrderRequest{
		ID:           event.GatewayPaymentID,
		Status:       PaymentStatusCaptured,
		UpdateTime:   event.Timestamp.UTC().Format(time.RFC3339),
		EmailAddress: event.EmailAddress,
	}

	_, err = r.orders.MarkPaid(ctx, event.OrderID, details)
	switch {
	case apperr.Is(err, apperr.KindNotFound), apperr.Is(err, apperr.KindValidation):
		r.logger.Warn("Dropping payment for unknown order",
			zap.String("order_id", event.OrderID),
			zap.String("event_id", event.EventID))
		util.EventsConsumed.WithLabelValues(event.EventType, "dropped").Inc()
	case err != nil:
		util.EventsConsumed.WithLabelValues(event.EventType, "error").Inc()
		util.RecordError(span, err)
		return fmt.Errorf("failed to mark order %s paid: %w", event.OrderID, err)
	default:
		util.EventsConsumed.WithLabelValues(event.EventType, "ok").Inc()
		r.logger.Info("Order reconciled with payment",
			zap.String("order_id", event.OrderID),
			zap.String("payment_id", event.GatewayPaymentID))
	}

	if err := r.events.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		r.logger.Error("Failed to mark event processed", zap.String("event_id", event.EventID), zap.Error(err))
	}
	return nil
}
