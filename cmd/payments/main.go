package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/piresc/ramein/internal/pkg/config"
	"github.com/piresc/ramein/internal/pkg/database"
	"github.com/piresc/ramein/internal/pkg/health"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/middleware"
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/internal/pkg/nats"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/internal/pkg/retry"
	"github.com/piresc/ramein/internal/pkg/server"
	"github.com/piresc/ramein/services/payments"
	"github.com/piresc/ramein/services/payments/gateway"
	"github.com/piresc/ramein/services/payments/handler"
	"github.com/piresc/ramein/services/payments/repository"
	"github.com/piresc/ramein/services/payments/usecase"
)

func main() {
	appName := "payments-service"
	configPath := "config/payments.env"
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	// dependencies may still be booting alongside us
	dial := retry.NewWithDefaults(zapLogger)
	startupCtx := context.Background()

	var postgresClient *database.PostgresClient
	if err := dial.Execute(startupCtx, func(context.Context) (err error) {
		postgresClient, err = database.NewPostgresClient(configs.Database)
		return err
	}); err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	var redisClient *database.RedisClient
	if err := dial.Execute(startupCtx, func(context.Context) (err error) {
		redisClient, err = database.NewRedisClient(configs.Redis)
		return err
	}); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	var natsClient *nats.Client
	if err := dial.Execute(startupCtx, func(context.Context) (err error) {
		natsClient, err = nats.NewClient(configs.NATS.URL, appName)
		return err
	}); err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// Repositories
	txRepo := repository.NewTransactionRepository(configs, postgresClient.GetDB())
	dirRepo := repository.NewDirectoryRepository(postgresClient.GetDB())
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Gateways
	registry, err := gateway.NewRegistry(
		models.GatewayProvider(configs.Payment.DefaultGateway),
		configuredGateways(configs, zapLogger)...,
	)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment gateways", logger.Err(err))
	}
	enabled := make([]string, 0, len(registry.Providers()))
	for _, p := range registry.Providers() {
		enabled = append(enabled, string(p))
	}
	logger.Info("Payment gateways enabled",
		logger.Strings("providers", enabled),
		logger.String("default", string(registry.Default())))
	publisher := gateway.NewPaymentPublisher(natsClient)

	paymentUC, err := usecase.NewPaymentUC(configs, txRepo, dirRepo, cacheRepo, registry, publisher)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment use case", logger.Err(err))
	}

	// Pending transaction poller
	scheduler := usecase.NewScheduler(paymentUC,
		time.Duration(configs.Payment.PollIntervalSeconds)*time.Second, nrApp)
	scheduler.Start(context.Background())

	paymentHandler := handler.NewHandler(paymentUC, configs)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(configs.Server.ReadTimeout) * time.Second
	e.Server.WriteTimeout = time.Duration(configs.Server.WriteTimeout) * time.Second

	// Panic recovery must run first
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(&configs.APIKey)
	webhookLimiter := middleware.IPRateLimiter("rate:webhook", configs.Payment.WebhookRateLimit,
		time.Minute, redisClient.GetClient())

	healthService := health.NewHealthService(zapLogger)
	healthService.AddChecker("postgres", health.NewPostgresHealthChecker(postgresClient))
	healthService.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
	healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)

	paymentHandler.RegisterRoutes(e, apiKeyMiddleware, webhookLimiter)

	addr := fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)
	srv := server.NewGracefulServer(e, zapLogger, addr,
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)

	// Let an in-flight poll finish before closing its dependencies
	srv.OnShutdown("poller", func(context.Context) error {
		scheduler.Stop()
		return nil
	})
	srv.OnShutdown("nats", func(context.Context) (err error) {
		natsClient.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error { return redisClient.Close() })
	srv.OnShutdown("postgres", func(context.Context) error { return postgresClient.Close() })
	if nrApp != nil {
		srv.OnShutdown("newrelic", func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}

	if err := srv.Start(); err != nil {
		zapLogger.Error("Shutdown finished with errors", logger.Err(err))
	}

	zapLogger.Info("Server exiting gracefully")
	_ = zapLogger.Sync()
}

// configuredGateways returns the adapters that have credentials. The registry
// rejects a default provider that is missing from the list.
func configuredGateways(configs *models.Config, zapLogger *logger.ZapLogger) []payments.PaymentGateway {
	var gateways []payments.PaymentGateway
	if configs.Midtrans.ServerKey != "" {
		gateways = append(gateways, gateway.NewMidtransGateway(configs.Midtrans, configs.Payment, zapLogger))
	}
	if configs.Xendit.SecretKey != "" {
		gateways = append(gateways, gateway.NewXenditGateway(configs.Xendit, configs.Payment, zapLogger))
	}
	return gateways
}
