package models

import "time"

// Config holds all configuration for a service binary
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NATS         NATSConfig
	Logger       LoggerConfig
	Dispatch     DispatchConfig
	Pricing      PricingConfig
	Payment      PaymentConfig
	Notification NotificationConfig
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig holds NATS/JetStream configuration
type NATSConfig struct {
	URL string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level string
	Type  string // "console" or "file"
	Path  string
}

// DispatchConfig tunes the ride matching pipeline
type DispatchConfig struct {
	SearchRadiusKm    float64
	MaxCandidates     int
	MatchAttempts     int
	MatchBackoff      time.Duration
	DriverTTL         time.Duration
	PublishTimeout    time.Duration
	PublishRetries    int
	PublishBackoff    time.Duration
	RefareThresholdKm float64
}

// PricingConfig overrides the default tariff table
type PricingConfig struct {
	BaseFare    float64
	PerKm       float64
	PerMinute   float64
	MinimumFare float64
	AvgSpeedKmh float64
	Currency    string
}

// PaymentConfig selects and configures the payment processor
type PaymentConfig struct {
	Provider     string // "mock" or "stripe"
	StripeAPIKey string
}

// NotificationConfig tunes the notification fanout
type NotificationConfig struct {
	DedupeTTL time.Duration
}
