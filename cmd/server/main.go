package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petcare-store/config"
	"petcare-store/internal/api"
	"petcare-store/internal/broker"
	"petcare-store/internal/payment"
	"petcare-store/internal/redisclient"
	"petcare-store/internal/service"
	"petcare-store/internal/store"
	"petcare-store/internal/store/mongostore"
	"petcare-store/internal/util"
	"petcare-store/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, cfg.Observ.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting petcare store",
		zap.String("env", cfg.Server.Env),
		zap.String("database_driver", cfg.Database.Driver))

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer("petcare-store", cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	repo, err := openRepository(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer repo.Close()
	logger.Info("Store connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.SeedData {
		if err := store.Seed(ctx, repo); err != nil {
			logger.Fatal("Failed to seed store", zap.Error(err))
		}
	}

	var cache service.Cache = service.NopCache{}
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cache = redisClient
		logger.Info("Redis connected")
	}

	var eventPublisher service.EventPublisher
	var direct *service.DirectPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized")
	} else {
		direct = service.NewDirectPublisher()
		eventPublisher = direct
	}

	var gateway payment.Gateway = &payment.StubGateway{}
	if cfg.Payment.GatewayConfigured() {
		gateway = payment.NewRazorpayClient(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.APIURL)
	} else {
		logger.Warn("Payment gateway credentials not set, using local stub gateway")
	}

	orderService := service.NewOrderService(repo, eventPublisher)
	reconciler := service.NewPaymentReconciler(repo, orderService)
	services := api.Services{
		Orders:   orderService,
		Products: service.NewProductService(repo, cache, cfg.Redis.CacheTTL),
		Shipping: service.NewShippingService(repo, cache, cfg.Redis.CacheTTL),
		Payments: service.NewPaymentService(gateway, cfg.Payment.KeySecret, eventPublisher),
		Users:    service.NewUserService(repo),
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var paymentWorker *worker.PaymentWorker
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		paymentWorker = worker.NewPaymentWorker(consumer, reconciler)
		go func() {
			if err := paymentWorker.Start(workerCtx); err != nil {
				logger.Error("Payment worker error", zap.Error(err))
			}
		}()
	} else {
		direct.OnPaymentVerified(reconciler.HandlePaymentVerified)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, repo, api.RateLimit{
		RPS:   cfg.RateLimit.RPS,
		Burst: cfg.RateLimit.Burst,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if paymentWorker != nil {
		if err := paymentWorker.Stop(); err != nil {
			logger.Error("Failed to stop payment worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// openRepository connects the configured storage driver
func openRepository(ctx context.Context, cfg config.DatabaseConfig) (store.Repository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		ms, err := mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		db, err := store.NewStore(cfg.URL, store.Options{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return db, nil
	}
}
