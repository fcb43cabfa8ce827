package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every runtime setting of the API.
type Config struct {
	AppPort        string
	AppEnv         string
	DBDriver       string
	DatabaseDSN    string
	JWTSecret      string
	JWTTTL         time.Duration
	ClientTokenTTL time.Duration
	TokenIssuer    string
	RabbitMQURL    string
	RedisAddr      string
	ReportCacheTTL time.Duration
	FrontendURL    string
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8002")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=pethaul port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("CLIENT_TOKEN_TTL", 365*24*time.Hour)
	v.SetDefault("TOKEN_ISSUER", "pethaul")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REPORT_CACHE_TTL", time.Minute)
	v.SetDefault("FRONTEND_APP_URL", "http://localhost:5173")
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		ClientTokenTTL: v.GetDuration("CLIENT_TOKEN_TTL"),
		TokenIssuer:    v.GetString("TOKEN_ISSUER"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		ReportCacheTTL: v.GetDuration("REPORT_CACHE_TTL"),
		FrontendURL:    v.GetString("FRONTEND_APP_URL"),
	}

	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return nil, fmt.Errorf("unknown APP_ENV %q", cfg.AppEnv)
	}
	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "development_jwt_secret"
	}
	if cfg.JWTTTL <= 0 || cfg.ClientTokenTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return cfg, nil
}
