package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	app "connector/internal/app/connector"
	"connector/internal/config"
	connector_http "connector/internal/handler/http/connector"
	kafka_handler "connector/internal/handler/kafka"
	"connector/internal/infrastructure/database"
	"connector/internal/infrastructure/gateway"
	kafka_infra "connector/internal/infrastructure/kafka"
	"connector/internal/infrastructure/kvstore"
	"connector/internal/outbox"
	outbox_postgres "connector/internal/repository/outbox_repo/postgres"
	payments_postgres "connector/internal/repository/payments_repo/postgres"
	"connector/internal/qrcode"
	"connector/internal/util"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	appLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()
	appLogger.Info("Connector Service starting...")

	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	appLogger.Info("Waiting for database to be available...")
	db, err := database.ConnectWithRetry(dbConfig, 10, 5*time.Second, appLogger)
	if err != nil {
		appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		} else {
			appLogger.Info("Database connection closed.")
		}
	}()

	appLogger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.MigrationsURL, dbConfig); err != nil {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	appLogger.Info("Database migrations completed successfully (or no new migrations).")

	kafkaBrokers := cfg.GetKafkaBrokers()
	requiredTopics := []string{
		cfg.KafkaPaymentOutcomeTopic,
		cfg.KafkaChargeEventsTopic,
	}

	topicsCtx, topicsCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = kafka_infra.EnsureTopics(topicsCtx, kafkaBrokers, requiredTopics, appLogger)
	topicsCancel()
	if err != nil {
		appLogger.Fatal("Failed to ensure Kafka topics", zap.Error(err))
	}

	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := kvstore.NewRedisClient(redisCtx, cfg.RedisURL)
	redisCancel()
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	gateways := gateway.NewHTTPFactory(
		gateway.Config{
			LiveBaseURL:    cfg.Gateway.LiveBaseURL,
			LiveAuthURL:    cfg.Gateway.LiveAuthURL,
			SandboxBaseURL: cfg.Gateway.SandboxBaseURL,
			SandboxAuthURL: cfg.Gateway.SandboxAuthURL,
			ForceSandbox:   cfg.Gateway.ForceSandbox,
			Timeout:        cfg.Gateway.Timeout,
		},
		kvstore.NewTokenCache(redisClient),
		appLogger.With(zap.String("component", "GatewayClient")),
	)

	paymentRepository := payments_postgres.NewPaymentRepository()
	outboxRepository := outbox_postgres.NewOutboxRepository()

	connectorService := app.NewConnectorService(
		app.Deps{
			DB:          db,
			Gateways:    gateways,
			PaymentRepo: paymentRepository,
			OutboxRepo:  outboxRepository,
			TestStore:   kvstore.NewAuthorizationStore(redisClient),
			QR:          qrcode.NewRenderer(0),
			IDs:         util.UUIDGenerator{},
			Clock:       util.SystemClock{},
			Market:      cfg.Market,
			CallbackURL: cfg.Gateway.CallbackURL,
		},
		appLogger.With(zap.String("component", "ConnectorService")),
	)
	appLogger.Info("Connector Service initialized.")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.HTTPRequestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-VTEX-API-AppKey", "X-VTEX-API-AppToken", "X-VTEX-API-Is-TestSuite"},
		MaxAge:         300,
	}))
	connector_http.RegisterRoutes(router, connectorService, appLogger.With(zap.String("component", "HTTPHandler")))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	kafkaProducer := kafka_infra.NewProducer(
		kafkaBrokers,
		cfg.KafkaPaymentOutcomeTopic,
		appLogger.With(zap.String("component", "KafkaProducer")),
	)
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		} else {
			appLogger.Info("Kafka producer closed.")
		}
	}()

	outboxProcessor := outbox.NewProcessor(
		db,
		outboxRepository,
		kafkaProducer,
		cfg.KafkaPaymentOutcomeTopic,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		cfg.OutboxMaxAge,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)

	chargeEventsConsumer := kafka_infra.NewConsumer(
		kafkaBrokers,
		cfg.KafkaChargeEventsTopic,
		cfg.KafkaConsumerGroup,
		kafka_handler.ChargeEventMessageHandler(
			connectorService,
			appLogger.With(zap.String("component", "ChargeEventHandler")),
		),
		appLogger.With(zap.String("component", "ChargeEventsConsumer")),
	)

	ctxMain, cancelMain := context.WithCancel(context.Background())
	defer cancelMain()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	outboxProcessor.Start(ctxMain)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		appLogger.Info("Starting Charge Events Kafka Consumer...")
		if err := chargeEventsConsumer.Consume(ctxMain); err != nil &&
			!errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrGroupClosed) {
			appLogger.Error("Charge Events Kafka Consumer failed", zap.Error(err))
		}
		appLogger.Info("Charge Events Kafka Consumer stopped.")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	cancelMain()

	if err := chargeEventsConsumer.Close(); err != nil {
		appLogger.Error("Error closing Charge Events Kafka Consumer", zap.Error(err))
	}
	select {
	case <-consumerDone:
	case <-time.After(5 * time.Second):
		appLogger.Warn("Charge Events Kafka Consumer did not stop within 5 seconds.")
	}

	outboxProcessor.Stop()
	select {
	case <-outboxProcessor.Done():
	case <-time.After(5 * time.Second):
		appLogger.Warn("Outbox Processor did not stop cleanly within 5 seconds.")
	}

	appLogger.Info("Application gracefully shut down.")
}
