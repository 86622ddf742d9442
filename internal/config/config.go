package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset or blank.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	PDF      PDFConfig
	Admins   []AdminSeed
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
}

// CORSConfig lists the browser origin allowed to call the API.
type CORSConfig struct {
	ClientOrigin string
}

// PDFConfig points at the external document query backend.
type PDFConfig struct {
	BackendURL     string
	TimeoutSeconds int
	MaxUploadMB    int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "docquery-auth"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("DATABASE_URL"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:  strings.TrimSpace(os.Getenv("JWT_SECRET")),
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		CORS: CORSConfig{
			ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		},
		PDF: PDFConfig{
			BackendURL:     strings.TrimRight(getEnv("PDF_BACKEND_URL", "http://localhost:8000"), "/"),
			TimeoutSeconds: getEnvAsInt("PDF_BACKEND_TIMEOUT_SECONDS", 120),
			MaxUploadMB:    getEnvAsInt("PDF_MAX_UPLOAD_MB", 50),
		},
	}

	admins, err := LoadAdminSeeds(os.Getenv("ADMIN_SEED_FILE"))
	if err != nil {
		return nil, err
	}
	if envAdmin, ok := adminFromEnv(); ok {
		admins = append(admins, envAdmin)
	}
	cfg.Admins = admins

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Postgres.DSN == "" && c.IsProduction() {
		return errors.New("DATABASE_URL is required in production")
	}
	if c.CORS.ClientOrigin == "*" {
		return errors.New("CLIENT_ORIGIN cannot be a wildcard when credentials are allowed")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the PDF backend call timeout.
func (p PDFConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the request body limit for PDF uploads.
func (p PDFConfig) MaxUploadBytes() int {
	if p.MaxUploadMB <= 0 {
		return 0
	}
	return p.MaxUploadMB * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
