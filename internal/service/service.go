package service

import (
	"context"
	"sync"
	"time"

	"petcare-store/internal/models"
	"petcare-store/internal/util"

	"go.uber.org/zap"
)

// EventPublisher announces domain events. *broker.EventPublisher is the
// Kafka implementation.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error
	PublishPaymentVerified(ctx context.Context, event *models.PaymentVerifiedEvent) error
}

// Cache is a JSON read-through cache. *redisclient.Client implements it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *models.OrderCreatedEvent) error { return nil }
func (NopPublisher) PublishOrderPaid(context.Context, *models.OrderPaidEvent) error       { return nil }
func (NopPublisher) PublishPaymentVerified(context.Context, *models.PaymentVerifiedEvent) error {
	return nil
}

// NopCache never hits
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, interface{}) (bool, error)          { return false, nil }
func (NopCache) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                           { return nil }
func (NopCache) DeletePrefix(context.Context, string) error                        { return nil }

// DirectPublisher delivers PaymentVerified events in process. It stands in
// for Kafka when no broker is configured.
type DirectPublisher struct {
	mu                sync.RWMutex
	onPaymentVerified func(context.Context, *models.PaymentVerifiedEvent) error
	logger            *zap.Logger
}

// NewDirectPublisher creates a publisher with no subscribers
func NewDirectPublisher() *DirectPublisher {
	return &DirectPublisher{logger: util.GetLogger()}
}

// OnPaymentVerified registers the PaymentVerified subscriber
func (p *DirectPublisher) OnPaymentVerified(handler func(context.Context, *models.PaymentVerifiedEvent) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPaymentVerified = handler
}

func (p *DirectPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	util.EventsPublished.WithLabelValues(event.EventType, "ok").Inc()
	p.logger.Debug("Order created event", zap.String("order_id", event.OrderID))
	return nil
}

func (p *DirectPublisher) PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error {
	util.EventsPublished.WithLabelValues(event.EventType, "ok").Inc()
	p.logger.Debug("Order paid event", zap.String("order_id", event.OrderID))
	return nil
}

func (p *DirectPublisher) PublishPaymentVerified(ctx context.Context, event *models.PaymentVerifiedEvent) error {
	p.mu.RLock()
	handler := p.onPaymentVerified
	p.mu.RUnlock()

	util.EventsPublished.WithLabelValues(event.EventType, "ok").Inc()
	if handler == nil {
		return nil
	}
	return handler(ctx, event)
}

func cacheGet(ctx context.Context, logger *zap.Logger, cache Cache, name, key string, dst interface{}) bool {
	hit, err := cache.GetJSON(ctx, key, dst)
	if err != nil {
		logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		util.CacheRequestsTotal.WithLabelValues(name, "error").Inc()
		return false
	}
	if hit {
		util.CacheRequestsTotal.WithLabelValues(name, "hit").Inc()
	} else {
		util.CacheRequestsTotal.WithLabelValues(name, "miss").Inc()
	}
	return hit
}

func cacheSet(ctx context.Context, logger *zap.Logger, cache Cache, key string, v interface{}, ttl time.Duration) {
	if err := cache.SetJSON(ctx, key, v, ttl); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
