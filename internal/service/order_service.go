package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/store"
	"petcare-store/internal/util"
	"petcare-store/internal/validation"

	"go.uber.org/zap"
)

const orderNotFound = "Order not found"

// OrderService handles order business logic
type OrderService struct {
	repo           store.OrderRepository
	eventPublisher EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(repo store.OrderRepository, eventPublisher EventPublisher) *OrderService {
	if eventPublisher == nil {
		eventPublisher = NopPublisher{}
	}
	return &OrderService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// CreateOrder validates and stores an order. Every accepted submission is
// a new order; totals are stored as sent.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	result := validation.Order(req)
	if !result.Valid() {
		util.ValidationFailuresTotal.WithLabelValues("order").Inc()
		return nil, result.Err()
	}

	order := result.Value.ToOrder()
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(fmt.Errorf("failed to create order: %w", err))
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.User),
		zap.String("total_price", order.TotalPrice.String()))

	event := &models.OrderCreatedEvent{
		BaseEvent:     models.NewBaseEvent(models.EventTypeOrderCreated),
		OrderID:       order.ID,
		UserID:        order.User,
		ItemCount:     len(order.OrderItems),
		TotalPrice:    order.TotalPrice,
		PaymentMethod: order.PaymentMethod,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

// ListOrders returns every order
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// GetOrder retrieves an order by ID. A malformed id is a validation error.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder")
	defer span.End()

	if err := validation.ObjectID("id", id, "Invalid order ID"); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *OrderService) load(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(orderNotFound)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return order, nil
}

// MarkPaid records a payment against the order. Repeated calls overwrite
// paidAt and the payment result; concurrent calls are last-write-wins.
func (s *OrderService) MarkPaid(ctx context.Context, id string, details models.PayOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.MarkPaid")
	defer span.End()

	if err := validation.ObjectID("id", id, "Invalid order ID"); err != nil {
		return nil, err
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	paidAt := s.now().UTC()
	// paidAt never precedes createdAt
	if paidAt.Before(order.CreatedAt) {
		paidAt = order.CreatedAt
	}
	order.MarkPaid(models.PaymentResult(details), paidAt)

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(orderNotFound)
		}
		util.RecordError(span, err)
		return nil, apperr.Internal(fmt.Errorf("failed to mark order paid: %w", err))
	}

	util.OrdersPaidTotal.Inc()
	s.logger.Info("Order paid", zap.String("order_id", order.ID), zap.String("payment_id", details.ID))

	event := &models.OrderPaidEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeOrderPaid),
		OrderID:   order.ID,
		PaymentID: details.ID,
		PaidAt:    paidAt,
	}
	if err := s.eventPublisher.PublishOrderPaid(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPaid event", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}
