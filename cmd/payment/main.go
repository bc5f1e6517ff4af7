package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prasetya/ridelink/internal/pkg/config"
	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/health"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/middleware"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/internal/pkg/retry"
	"github.com/prasetya/ridelink/internal/pkg/server"
	"github.com/prasetya/ridelink/services/payment"
	"github.com/prasetya/ridelink/services/payment/gateway"
	"github.com/prasetya/ridelink/services/payment/handler"
	"github.com/prasetya/ridelink/services/payment/processor"
	"github.com/prasetya/ridelink/services/payment/repository"
	"github.com/prasetya/ridelink/services/payment/usecase"
)

func main() {
	appName := "payment-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/payment.env")
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.InitFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	bus, err := events.NewJetStreamBus(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}

	publisher := events.NewRetryingPublisher(bus, retry.Config{
		MaxRetries: configs.Dispatch.PublishRetries,
		BaseDelay:  configs.Dispatch.PublishBackoff,
		MaxDelay:   configs.Dispatch.PublishTimeout,
		Multiplier: 2.0,
		Jitter:     true,
	}, configs.Dispatch.PublishTimeout, nil)

	var proc payment.Processor
	switch configs.Payment.Provider {
	case "stripe":
		proc = processor.NewStripeProcessor(configs.Payment.StripeAPIKey)
		zapLogger.Info("Using stripe payment processor")
	default:
		proc = processor.NewMockProcessor()
		zapLogger.Info("Using mock payment processor")
	}

	paymentRepo := repository.NewPaymentRepository(postgresClient)
	paymentGW := gateway.NewPaymentGW(publisher)
	paymentUC := usecase.NewPaymentUC(proc, paymentRepo, paymentGW)

	h := handler.NewHandler(paymentUC, bus)
	if err := h.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecovery(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthSvc := health.NewService()
	healthSvc.AddChecker("postgres", health.NewPostgresChecker(postgresClient))
	healthSvc.AddChecker("nats", health.NewBusChecker(bus))
	health.RegisterEndpoints(e, appName, healthSvc)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	h.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	srv.OnShutdown(func(ctx context.Context) error {
		bus.Close()
		return postgresClient.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}
