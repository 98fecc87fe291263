package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/payment"
	"petcare-store/internal/util"
	"petcare-store/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePaymentOrderRequest is the payload accepted by
// POST /api/payments/create-order. Amount is in rupees.
type CreatePaymentOrderRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency,omitempty"`
	Receipt  string           `json:"receipt,omitempty"`
}

// VerifyPaymentRequest is the gateway checkout callback. OrderID names the
// store order being paid; without it nothing is reconciled.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"order_id,omitempty"`
	Email             string `json:"email,omitempty"`
}

// PaymentService fronts the payment gateway
type PaymentService struct {
	gateway        payment.Gateway
	secret         string
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service. secret is the gateway
// key secret used to check callback signatures.
func NewPaymentService(gateway payment.Gateway, secret string, eventPublisher EventPublisher) *PaymentService {
	if eventPublisher == nil {
		eventPublisher = NopPublisher{}
	}
	return &PaymentService{
		gateway:        gateway,
		secret:         secret,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreatePaymentOrder opens a gateway order for amount
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, req CreatePaymentOrderRequest) (*payment.GatewayOrder, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreatePaymentOrder")
	defer span.End()

	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, apperr.Validation(apperr.FieldViolation("amount", "Amount must be a positive number"))
	}

	start := time.Now()
	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   *req.Amount,
		Currency: strings.TrimSpace(req.Currency),
		Receipt:  strings.TrimSpace(req.Receipt),
	})
	util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		util.PaymentOrdersTotal.WithLabelValues("error").Inc()
		util.RecordError(span, err)
		return nil, apperr.Internal(fmt.Errorf("failed to create payment order: %w", err))
	}

	util.PaymentOrdersTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Payment order created",
		zap.String("gateway_order_id", order.ID),
		zap.Int64("amount_paise", order.Amount))
	return order, nil
}

// VerifyPayment checks the callback signature and, when the callback names
// a store order, announces the verified payment.
func (s *PaymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.VerifyPayment")
	defer span.End()

	orderID := strings.TrimSpace(req.OrderID)
	if orderID != "" {
		if err := validation.ObjectID("order_id", orderID, "Invalid order ID"); err != nil {
			return err
		}
	}

	err := payment.Verify(s.secret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	switch {
	case errors.Is(err, payment.ErrSignatureMismatch):
		util.PaymentVerificationsTotal.WithLabelValues("mismatch").Inc()
		s.logger.Warn("Payment signature mismatch", zap.String("gateway_order_id", req.RazorpayOrderID))
		return apperr.SignatureMismatch()
	case err != nil:
		util.PaymentVerificationsTotal.WithLabelValues("error").Inc()
		util.RecordError(span, err)
		return apperr.Internal(err)
	}

	util.PaymentVerificationsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Payment verified",
		zap.String("gateway_order_id", req.RazorpayOrderID),
		zap.String("gateway_payment_id", req.RazorpayPaymentID))

	if orderID == "" {
		return nil
	}

	event := &models.PaymentVerifiedEvent{
		BaseEvent:        models.NewBaseEvent(models.EventTypePaymentVerified),
		OrderID:          orderID,
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		EmailAddress:     strings.TrimSpace(req.Email),
	}
	if err := s.eventPublisher.PublishPaymentVerified(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentVerified event", zap.String("order_id", orderID), zap.Error(err))
	}
	return nil
}

// PaymentMethods returns the checkout payment options
func (s *PaymentService) PaymentMethods() map[string]payment.Method {
	return payment.Methods()
}
