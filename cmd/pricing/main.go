package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/prasetya/ridelink/internal/pkg/config"
	"github.com/prasetya/ridelink/internal/pkg/health"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/middleware"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/internal/pkg/server"
	"github.com/prasetya/ridelink/services/pricing/fare"
	"github.com/prasetya/ridelink/services/pricing/handler"
	"github.com/prasetya/ridelink/services/pricing/usecase"
)

func main() {
	appName := "pricing-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/pricing.env")
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

	calc := fare.NewCalculator(fare.TariffFromConfig(configs.Pricing), fare.DefaultSurgeSchedule())
	pricingUC := usecase.NewPricingUC(calc)
	h := handler.NewHandler(pricingUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecovery(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Quoting is pure computation; the health endpoints report static liveness.
	health.RegisterEndpoints(e, appName, health.NewService())
	e.GET("/metrics", echo.WrapHandler(observability.Handler()))

	h.RegisterRoutes(e)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server exited with error", zap.Error(err))
	}
}
