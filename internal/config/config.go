package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Object storage drivers
const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
	StorageLocal = "local"
)

// Config holds all configuration for the application
type Config struct {
	// Env is "development" or "production"
	Env string

	// Server configuration
	Server ServerConfig

	// Database selects the document store backend
	Database DatabaseConfig

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig

	// Storage configuration for uploaded images
	Storage StorageConfig

	// JWT configuration
	JWT JWTConfig

	// Email configuration
	Email EmailConfig

	// Google OAuth configuration
	GoogleOAuth GoogleOAuthConfig

	// Stripe configuration
	Stripe StripeConfig

	// CORS configuration
	CORS CORSConfig

	RateLimit RateLimitConfig

	Log LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver       string
	QueryTimeout time.Duration
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// PostgresConfig holds PostgreSQL connection settings
type PostgresConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	ConnTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Driver    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	LocalDir  string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret        string
	ExpiresIn     time.Duration
	CookieExpires time.Duration
	ResetTokenTTL time.Duration
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	APIBase       string
	Currency      string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	Backend string
	Max     int
	Window  time.Duration
	// TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For
	// header is believed. Empty means the peer address is always used.
	TrustedProxies []string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	env := getEnv("APP_ENV", "development")
	logFormat := "console"
	if env == "production" {
		logFormat = "json"
	}

	config := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "3000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
			MaxBodyBytes:    int64(getIntEnv("SERVER_MAX_BODY_BYTES", 10*1024)),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", DriverMongo),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "natours"),
		},
		Postgres: PostgresConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "natours"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getInt32Env("DB_MAX_CONNS", 5),
			MinConns:    getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime: getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout: getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", StorageLocal),
			Endpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "natours"),
			UseSSL:    getBoolEnv("STORAGE_USE_SSL", false),
			LocalDir:  getEnv("STORAGE_LOCAL_DIR", "public/img"),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			ExpiresIn:     getDurationEnv("JWT_EXPIRES_IN", 90*24*time.Hour),
			CookieExpires: getDurationEnv("JWT_COOKIE_EXPIRES_IN", 90*24*time.Hour),
			ResetTokenTTL: getDurationEnv("JWT_RESET_TTL", 10*time.Minute),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.mailtrap.io"),
			SMTPPort:     getEnv("SMTP_PORT", "2525"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("EMAIL_FROM", "hello@natours.io"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Natours"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/v1/auth/google/callback"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			APIBase:       getEnv("STRIPE_API_BASE", "https://api.stripe.com"),
			Currency:      getEnv("STRIPE_CURRENCY", "usd"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getBoolEnv("RATE_LIMIT_ENABLED", true),
			Backend:        getEnv("RATE_LIMIT_BACKEND", "memory"),
			Max:            getIntEnv("RATE_LIMIT_MAX", 100),
			Window:         getDurationEnv("RATE_LIMIT_WINDOW", time.Hour),
			TrustedProxies: getStringSliceEnv("RATE_LIMIT_TRUSTED_PROXIES", nil),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverMemory:
	case DriverPostgres:
		if c.Postgres.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageMinIO, StorageS3, StorageLocal:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.RateLimit.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}

	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}

	if !c.IsEmailConfigured() {
		log.Println("Warning: SMTP credentials not configured. Emails will only be logged.")
	}

	// Check required Google OAuth configuration
	if !c.IsGoogleOAuthConfigured() {
		log.Println("Warning: Google OAuth credentials not configured. Google login will not work.")
	}

	if c.Stripe.SecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not configured. Checkout will not work.")
	}

	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetDSN returns the postgres connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SSLMode,
		int(c.Postgres.ConnTimeout.Seconds()),
	)
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "" && c.Email.FromEmail != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("15m") and plain day counts ("90d").
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if days, ok := strings.CutSuffix(value, "d"); ok {
			if n, err := strconv.Atoi(days); err == nil {
				return time.Duration(n) * 24 * time.Hour
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
