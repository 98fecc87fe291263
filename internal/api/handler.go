package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"petcare-store/internal/service"
	"petcare-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the domain services behind the HTTP surface
type Services struct {
	Orders   *service.OrderService
	Products *service.ProductService
	Shipping *service.ShippingService
	Payments *service.PaymentService
	Users    *service.UserService
}

// Handler contains HTTP handlers
type Handler struct {
	orders   *service.OrderService
	products *service.ProductService
	shipping *service.ShippingService
	payments *service.PaymentService
	users    *service.UserService

	ready   Pinger
	limiter *ipRateLimiter
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. ready backs /ready; limits
// throttle the payment and user routes per client IP.
func NewHandler(svc Services, ready Pinger, limits RateLimit) *Handler {
	return &Handler{
		orders:   svc.Orders,
		products: svc.Products,
		shipping: svc.Shipping,
		payments: svc.Payments,
		users:    svc.Users,
		ready:    ready,
		limiter:  newIPRateLimiter(limits),
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		orders := api.Group("/orders")
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id/pay", h.payOrder)

		products := api.Group("/products")
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)

		shipping := api.Group("/shipping")
		shipping.GET("", h.listZones)
		shipping.POST("/calculate", h.calculateShipping)

		payments := api.Group("/payments", h.limiter.middleware())
		payments.POST("/create-order", h.createPaymentOrder)
		payments.POST("/verify-payment", h.verifyPayment)
		payments.GET("/payment-methods", h.paymentMethods)

		users := api.Group("/users", h.limiter.middleware())
		users.POST("", h.registerUser)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the store answers
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"time":   time.Now().Unix(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// requestLogger writes one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
