package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// InitConfig loads configuration for a service. In local environments the
// per-service env file is loaded first; everything else comes from the
// process environment.
func InitConfig(configPath string) *models.Config {
	env := GetEnv("APP_ENV", "local")
	if env == "local" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Version = GetEnv("APP_VERSION", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 0)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.Type = GetEnv("LOG_TYPE", "console")
	configs.Logger.Path = GetEnv("LOG_FILE_PATH", "logs/ridelink.log")

	// Dispatch config
	configs.Dispatch.SearchRadiusKm = GetEnvAsFloat("DISPATCH_SEARCH_RADIUS_KM", 5.0)
	configs.Dispatch.MaxCandidates = GetEnvAsInt("DISPATCH_MAX_CANDIDATES", 10)
	configs.Dispatch.MatchAttempts = GetEnvAsInt("DISPATCH_MATCH_ATTEMPTS", 3)
	configs.Dispatch.MatchBackoff = GetEnvAsDuration("DISPATCH_MATCH_BACKOFF", 500*time.Millisecond)
	configs.Dispatch.DriverTTL = GetEnvAsDuration("DISPATCH_DRIVER_TTL", 2*time.Minute)
	configs.Dispatch.PublishTimeout = GetEnvAsDuration("DISPATCH_PUBLISH_TIMEOUT", 5*time.Second)
	configs.Dispatch.PublishRetries = GetEnvAsInt("DISPATCH_PUBLISH_RETRIES", 3)
	configs.Dispatch.PublishBackoff = GetEnvAsDuration("DISPATCH_PUBLISH_BACKOFF", 100*time.Millisecond)
	configs.Dispatch.RefareThresholdKm = GetEnvAsFloat("DISPATCH_REFARE_THRESHOLD_KM", 0.05)

	// Pricing config
	configs.Pricing.BaseFare = GetEnvAsFloat("PRICING_BASE_FARE", 2.50)
	configs.Pricing.PerKm = GetEnvAsFloat("PRICING_PER_KM", 1.75)
	configs.Pricing.PerMinute = GetEnvAsFloat("PRICING_PER_MINUTE", 0.30)
	configs.Pricing.MinimumFare = GetEnvAsFloat("PRICING_MINIMUM_FARE", 5.00)
	configs.Pricing.AvgSpeedKmh = GetEnvAsFloat("PRICING_AVG_SPEED_KMH", 30.0)
	configs.Pricing.Currency = GetEnv("PRICING_CURRENCY", "USD")

	// Payment config
	configs.Payment.Provider = GetEnv("PAYMENT_PROVIDER", "mock")
	configs.Payment.StripeAPIKey = GetEnv("STRIPE_API_KEY", "")

	// Notification config
	configs.Notification.DedupeTTL = GetEnvAsDuration("NOTIFICATION_DEDUPE_TTL", 24*time.Hour)

	return configs
}

// Helper functions to get environment variables with different types

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
