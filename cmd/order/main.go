package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogdomain "github.com/tair/food-delivery/internal/catalog/domain"
	catalogrepo "github.com/tair/food-delivery/internal/catalog/repository"
	"github.com/tair/food-delivery/internal/order"
	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/handler"
	"github.com/tair/food-delivery/internal/order/pricing"
	"github.com/tair/food-delivery/internal/order/repository"
	"github.com/tair/food-delivery/internal/order/usecase/command"
	"github.com/tair/food-delivery/kafka"
	"github.com/tair/food-delivery/pkg/cache"
	"github.com/tair/food-delivery/pkg/database"
	"github.com/tair/food-delivery/pkg/logger"
	"github.com/tair/food-delivery/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "order-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting order service")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "orderdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	store := repository.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	menuStore := catalogrepo.NewGormMenuRepository(db)
	if err := menuStore.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run catalog migrations")
	}

	logger.Logger.Info().Msg("Database initialized")

	catalog := buildCatalog(menuStore)
	calculator := pricing.NewStandardCalculator(
		getEnvDecimal("TAX_RATE", "0.10"),
		getEnvDecimal("DELIVERY_CHARGE", "3.50"),
	)
	payments := buildPaymentClient()

	// The notifier is optional: without brokers status changes simply go
	// unannounced.
	var notifier command.Notifier
	var brokers []string
	if list := getEnv("KAFKA_BROKERS", ""); list != "" {
		brokers = strings.Split(list, ",")
		publisher, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Kafka, order events disabled")
			brokers = nil
		} else {
			defer publisher.Close()
			notifier = publisher
		}
	}

	orderHandler, err := order.InitializeHandler(db, catalog, calculator, payments, notifier)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	if len(brokers) > 0 {
		startCallbackConsumer(brokers, command.NewHandleCallbackHandler(store))
	}

	httpPort := getEnv("HTTP_PORT", "8082")
	startHTTPServer(orderHandler, db, httpPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func buildCatalog(menuStore *catalogrepo.GormMenuRepository) catalogdomain.Repository {
	redisAddr := getEnv("REDIS_ADDR", "")
	if redisAddr == "" {
		return menuStore
	}

	redisCache, err := cache.NewRedisCache(redisAddr, getEnv("REDIS_PASSWORD", ""), 0)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to connect to Redis, menu cache disabled")
		return menuStore
	}

	ttl := time.Duration(getEnvInt("MENU_CACHE_TTL_SECONDS", 300)) * time.Second
	return catalogrepo.NewCachedMenuRepository(menuStore, redisCache, ttl)
}

func buildPaymentClient() *client.PaymentServiceClient {
	tokens := client.NewJWTTokenProvider(
		[]byte(getEnv("JWT_SECRET", "dev-secret")),
		time.Duration(getEnvInt("PAYMENT_TOKEN_TTL_MINUTES", 15))*time.Minute,
		cache.NewMemoryCache(),
	)

	return client.NewPaymentServiceClient(client.Config{
		BaseURL:     getEnv("PAYMENT_SERVICE_URL", "http://localhost:8083"),
		Timeout:     time.Duration(getEnvInt("PAYMENT_TIMEOUT_SECONDS", 10)) * time.Second,
		MaxAttempts: getEnvInt("PAYMENT_MAX_ATTEMPTS", 3),
	}, tokens)
}

// startCallbackConsumer subscribes to payment outcome events and folds them
// into the owning orders.
func startCallbackConsumer(brokers []string, callbacks *command.HandleCallbackHandler) {
	consumer, err := kafka.NewConsumer(brokers, "order-service", []string{kafka.TopicPaymentStatusChanged})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer, payment callbacks disabled")
		return
	}

	consumer.RegisterHandler(kafka.EventTypePaymentStatusChanged, func(ctx context.Context, event kafka.PaymentStatusChangedEvent) error {
		return callbacks.Handle(ctx, command.HandleCallbackCommand{
			OrderID:   event.OrderID,
			PaymentID: event.PaymentID,
			Status:    event.Status,
		})
	})

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logger.Logger.Error().Err(err).Msg("Kafka consumer stopped")
		}
	}()
}

func startHTTPServer(orderHandler *handler.OrderHandler, db *gorm.DB, port string) {
	router := mux.NewRouter()

	handler.RegisterMiddlewares(router, handler.DefaultMiddlewareConfig())

	orderHandler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(r.Context()) != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	go func() {
		logger.Logger.Info().Str("port", port).Msg("HTTP server listening")
		if err := http.ListenAndServe(":"+port, corsHandler); err != nil {
			logger.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", raw).Msg("Invalid decimal, using fallback")
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
