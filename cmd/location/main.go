package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prasetya/ridelink/internal/pkg/config"
	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/geoindex"
	"github.com/prasetya/ridelink/internal/pkg/health"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/middleware"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/internal/pkg/retry"
	"github.com/prasetya/ridelink/internal/pkg/server"
	"github.com/prasetya/ridelink/services/location/gateway"
	"github.com/prasetya/ridelink/services/location/handler"
	"github.com/prasetya/ridelink/services/location/repository"
	"github.com/prasetya/ridelink/services/location/usecase"
)

func main() {
	appName := "location-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/location.env")
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

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
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

	driverRepo := repository.NewDriverRepository(postgresClient, redisClient)
	locationGW := gateway.NewLocationGW(publisher)
	index := geoindex.NewRedisIndex(redisClient)
	locationUC := usecase.NewLocationUC(driverRepo, locationGW, index)

	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := locationUC.WarmIndex(warmCtx); err != nil {
		zapLogger.Warn("Failed to warm driver geo index", zap.Error(err))
	}
	cancel()

	h := handler.NewHandler(locationUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecovery(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthSvc := health.NewService()
	healthSvc.AddChecker("postgres", health.NewPostgresChecker(postgresClient))
	healthSvc.AddChecker("redis", health.NewRedisChecker(redisClient))
	healthSvc.AddChecker("nats", health.NewBusChecker(bus))
	health.RegisterEndpoints(e, appName, healthSvc)
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	h.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	srv.OnShutdown(func(ctx context.Context) error {
		bus.Close()
		if err := redisClient.Close(); err != nil {
			return err
		}
		return postgresClient.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}
