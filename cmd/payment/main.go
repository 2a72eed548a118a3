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
	"gorm.io/gorm"

	"github.com/tair/food-delivery/internal/payment"
	"github.com/tair/food-delivery/internal/payment/gateway"
	"github.com/tair/food-delivery/internal/payment/handler"
	"github.com/tair/food-delivery/internal/payment/repository"
	"github.com/tair/food-delivery/internal/payment/usecase/command"
	"github.com/tair/food-delivery/kafka"
	"github.com/tair/food-delivery/pkg/database"
	"github.com/tair/food-delivery/pkg/logger"
	"github.com/tair/food-delivery/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "payment-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, getEnv("LOG_LEVEL", "info"), isDevelopment)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting payment service")

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
		DBName:   getEnv("DB_NAME", "paymentdb"),
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

	logger.Logger.Info().Msg("Database initialized")

	// The publisher is optional: without brokers the callback channel is
	// simply silent and polling takes over.
	var publisher command.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		kafkaPublisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Kafka, payment events disabled")
		} else {
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}
	}

	gw := buildGateway()

	cfg := payment.Config{
		MaxRetries: getEnvInt("PAYMENT_MAX_RETRIES", 3),
	}

	paymentHandler, err := payment.InitializeHandler(db, gw, publisher, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	httpPort := getEnv("HTTP_PORT", "8083")
	startHTTPServer(paymentHandler, db, httpPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func buildGateway() gateway.Client {
	providerURL := getEnv("GATEWAY_BASE_URL", "")
	if providerURL == "" {
		logger.Logger.Info().Msg("No settlement provider configured, using sandbox gateway")
		return gateway.NewSandbox()
	}

	return gateway.NewProvider(gateway.ProviderConfig{
		BaseURL: providerURL,
		APIKey:  getEnv("GATEWAY_API_KEY", ""),
		Timeout: time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,
	})
}

func startHTTPServer(paymentHandler *handler.PaymentHandler, db *gorm.DB, port string) {
	router := mux.NewRouter()

	middlewareConfig := handler.DefaultMiddlewareConfig([]byte(getEnv("JWT_SECRET", "dev-secret")))
	handler.RegisterMiddlewares(router, middlewareConfig)

	paymentHandler.RegisterRoutes(router, middlewareConfig.GetAuthMiddleware())

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
