package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/logger"
)

// Checker reports whether a single dependency is reachable
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// PostgresChecker pings the relational store.
type PostgresChecker struct {
	client *database.PostgresClient
}

func NewPostgresChecker(client *database.PostgresClient) *PostgresChecker {
	return &PostgresChecker{client: client}
}

func (p *PostgresChecker) CheckHealth(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.GetDB().PingContext(ctx)
}

// RedisChecker pings the cache/geo store.
type RedisChecker struct {
	client *database.RedisClient
}

func NewRedisChecker(client *database.RedisClient) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) CheckHealth(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx)
}

// BusChecker verifies the broker connection is alive.
type BusChecker struct {
	bus *events.JetStreamBus
}

func NewBusChecker(bus *events.JetStreamBus) *BusChecker {
	return &BusChecker{bus: bus}
}

func (b *BusChecker) CheckHealth(ctx context.Context) error {
	if b.bus == nil {
		return nil
	}
	if !b.bus.IsConnected() {
		return errors.New("nats connection lost")
	}
	return nil
}

// Service aggregates checkers and renders the health endpoints.
type Service struct {
	checkers map[string]Checker
}

func NewService() *Service {
	return &Service{checkers: make(map[string]Checker)}
}

// AddChecker registers a dependency under the given name
func (s *Service) AddChecker(name string, checker Checker) {
	s.checkers[name] = checker
}

// Response is the payload for detailed health checks.
type Response struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Service      string                    `json:"service"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
}

// DependencyInfo holds the per-dependency result.
type DependencyInfo struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CheckAll runs every registered checker and aggregates the result.
func (s *Service) CheckAll(ctx context.Context) Response {
	resp := Response{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Dependencies: make(map[string]DependencyInfo),
	}

	for name, checker := range s.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			logger.Warn("health check failed",
				logger.String("dependency", name),
				logger.Err(err))
			resp.Dependencies[name] = DependencyInfo{Status: "unhealthy", Error: err.Error()}
			resp.Status = "unhealthy"
			continue
		}
		resp.Dependencies[name] = DependencyInfo{Status: "healthy"}
	}
	return resp
}

// RegisterEndpoints mounts /health, /health/ready and /health/live on e.
func RegisterEndpoints(e *echo.Echo, serviceName string, svc *Service) {
	group := e.Group("/health")

	group.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().UTC(),
		})
	})

	group.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		resp := svc.CheckAll(ctx)
		resp.Service = serviceName

		code := http.StatusOK
		if resp.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, resp)
	})

	group.GET("/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "alive",
			"service": serviceName,
		})
	})
}
