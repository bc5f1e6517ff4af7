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
	"github.com/prasetya/ridelink/internal/pkg/server"
	"github.com/prasetya/ridelink/services/notification/gateway"
	"github.com/prasetya/ridelink/services/notification/handler"
	"github.com/prasetya/ridelink/services/notification/repository"
	"github.com/prasetya/ridelink/services/notification/usecase"
)

func main() {
	appName := "notification-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/notification.env")
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

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	bus, err := events.NewJetStreamBus(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}

	seen := repository.NewRedisDedupeStore(redisClient, configs.Notification.DedupeTTL)
	deliverer := gateway.NewLogDeliverer()
	notificationUC := usecase.NewFanoutUC(seen, deliverer)

	natsHandler := handler.NewNATSHandler(notificationUC, bus)
	if err := natsHandler.InitConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecovery(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthSvc := health.NewService()
	healthSvc.AddChecker("redis", health.NewRedisChecker(redisClient))
	healthSvc.AddChecker("nats", health.NewBusChecker(bus))
	health.RegisterEndpoints(e, appName, healthSvc)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	srv.OnShutdown(func(ctx context.Context) error {
		bus.Close()
		return redisClient.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}
