package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/pricing"
	"petcare-store/internal/redisclient"
	"petcare-store/internal/store"
	"petcare-store/internal/util"
	"petcare-store/internal/validation"

	"go.uber.org/zap"
)

// ShippingService quotes delivery costs
type ShippingService struct {
	repo     store.ShippingZoneRepository
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(repo store.ShippingZoneRepository, cache Cache, cacheTTL time.Duration) *ShippingService {
	if cache == nil {
		cache = NopCache{}
	}
	return &ShippingService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// ListZones returns every shipping zone
func (s *ShippingService) ListZones(ctx context.Context) ([]models.ShippingZone, error) {
	ctx, span := util.StartSpan(ctx, "ShippingService.ListZones")
	defer span.End()

	key := redisclient.Key("zones", "all")
	var cached []models.ShippingZone
	if cacheGet(ctx, s.logger, s.cache, "zones", key, &cached) {
		return cached, nil
	}

	zones, err := s.repo.ListShippingZones(ctx)
	if err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(err)
	}

	cacheSet(ctx, s.logger, s.cache, key, zones, s.cacheTTL)
	return zones, nil
}

// Quote prices a parcel for the pincode's zone
func (s *ShippingService) Quote(ctx context.Context, req models.ShippingQuoteRequest) (*models.ShippingQuote, error) {
	ctx, span := util.StartSpan(ctx, "ShippingService.Quote")
	defer span.End()

	result := validation.ShippingQuote(req)
	if !result.Valid() {
		util.ValidationFailuresTotal.WithLabelValues("shipping").Inc()
		return nil, result.Err()
	}
	req = result.Value

	zoneType := pricing.ClassifyPostalCode(req.Pincode)
	zone, err := s.zone(ctx, zoneType)
	if err != nil {
		return nil, err
	}

	quote := pricing.Quote(*zone, *req.Weight, *req.OrderValue)
	util.ShippingQuotesTotal.WithLabelValues(string(zoneType), strconv.FormatBool(quote.FreeShipping)).Inc()
	return &quote, nil
}

func (s *ShippingService) zone(ctx context.Context, zt models.ZoneType) (*models.ShippingZone, error) {
	key := redisclient.Key("zones", string(zt))
	var cached models.ShippingZone
	if cacheGet(ctx, s.logger, s.cache, "zones", key, &cached) {
		return &cached, nil
	}

	zone, err := s.repo.GetShippingZoneByType(ctx, zt)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("No shipping zone for type", zap.String("zone_type", string(zt)))
		return nil, apperr.NotFound("Shipping zone not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	cacheSet(ctx, s.logger, s.cache, key, zone, s.cacheTTL)
	return zone, nil
}
