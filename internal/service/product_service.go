package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/redisclient"
	"petcare-store/internal/store"
	"petcare-store/internal/util"
	"petcare-store/internal/validation"

	"go.uber.org/zap"
)

// ProductService handles the catalog
type ProductService struct {
	repo     store.ProductRepository
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo store.ProductRepository, cache Cache, cacheTTL time.Duration) *ProductService {
	if cache == nil {
		cache = NopCache{}
	}
	return &ProductService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

func productListKey(category models.Category) string {
	if category == "" {
		return redisclient.Key("products", "list", "all")
	}
	return redisclient.Key("products", "list", string(category))
}

func productKey(id string) string {
	return redisclient.Key("products", "item", id)
}

// CreateProduct validates and stores a catalog entry
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	result := validation.Product(req)
	if !result.Valid() {
		util.ValidationFailuresTotal.WithLabelValues("product").Inc()
		return nil, result.Err()
	}

	product := result.Value.ToProduct()
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(fmt.Errorf("failed to create product: %w", err))
	}

	if err := s.cache.DeletePrefix(ctx, redisclient.Key("products", "list")); err != nil {
		s.logger.Warn("Failed to invalidate product lists", zap.Error(err))
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("category", string(product.Category)))
	return product, nil
}

// ListProducts returns the catalog, or one category of it
func (s *ProductService) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.ListProducts")
	defer span.End()

	key := productListKey(category)
	var cached []models.Product
	if cacheGet(ctx, s.logger, s.cache, "products", key, &cached) {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx, category)
	if err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(err)
	}

	cacheSet(ctx, s.logger, s.cache, key, products, s.cacheTTL)
	return products, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetProduct")
	defer span.End()

	if err := validation.ObjectID("id", id, "Invalid product ID"); err != nil {
		return nil, err
	}

	key := productKey(id)
	var cached models.Product
	if cacheGet(ctx, s.logger, s.cache, "products", key, &cached) {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		util.RecordError(span, err)
		return nil, apperr.Internal(err)
	}

	cacheSet(ctx, s.logger, s.cache, key, product, s.cacheTTL)
	return product, nil
}
