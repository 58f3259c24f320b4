package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string

	JWTSecret string

	// ServiceChargeRate is the rate (0.10 for ten percent) new commands open
	// with.
	ServiceChargeRate decimal.Decimal
	// TotalAuditInterval of zero disables the background total auditor.
	TotalAuditInterval time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int

	RabbitMQURL      string
	RabbitMQExchange string

	CORSAllowedOrigin string
}

// Load reads the environment. Call godotenv.Load beforehand to pick up a
// .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:             getEnv("DB_DSN", "commands.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:  getEnv("RABBITMQ_EXCHANGE", "commands.events"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://127.0.0.1:5500"),
	}

	rate, err := decimal.NewFromString(getEnv("SERVICE_CHARGE_RATE", "0"))
	if err != nil || rate.IsNegative() {
		return Config{}, fmt.Errorf("SERVICE_CHARGE_RATE must be a non-negative decimal, got %q", os.Getenv("SERVICE_CHARGE_RATE"))
	}
	cfg.ServiceChargeRate = rate

	cfg.TotalAuditInterval, err = time.ParseDuration(getEnv("TOTAL_AUDIT_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("TOTAL_AUDIT_INTERVAL: %w", err)
	}

	cfg.RateLimitPerSecond, err = strconv.ParseFloat(getEnv("RATE_LIMIT_PER_SECOND", "10"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_SECOND: %w", err)
	}

	cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER %q is not supported", cfg.DBDriver)
	}
	return cfg, nil
}

// InitDB opens the configured database.
func InitDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	default:
		dialector = sqlite.Open(cfg.DBDSN)
	}

	gormCfg := &gorm.Config{}
	if cfg.GinMode == "release" {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
