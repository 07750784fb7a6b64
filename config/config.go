package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string // sqlite file, used when DBDriver is sqlite

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session gate
	JWTSecret  string
	PINHash    string
	SessionTTL time.Duration

	// Assistant
	AssistantProvider string // "gemini" or "deepseek"
	GeminiAPIKey      string
	GeminiModel       string
	DeepSeekAPIKey    string
	DeepSeekURL       string
	DeepSeekModel     string

	// Object storage for metadata backups
	S3Bucket  string
	AWSRegion string

	// Logging
	LogLevel  string
	LogFormat string

	// Rate limiting on assistant endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration

	LowStockThreshold float64
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}
	loadSettings(cfg)

	// Load secrets based on environment
	switch env {
	case CI, Test:
		loadEnvSecrets(cfg)
	case Development:
		loadDevSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadSettings reads the non-secret settings from the environment.
func loadSettings(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", "postgres"))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "recipebox")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.DBPath = getEnv("DB_PATH", "recipebox.db")

	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 24*time.Hour)
	cfg.AssistantProvider = strings.ToLower(getEnv("ASSISTANT_PROVIDER", "gemini"))
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-1.5-flash")
	cfg.DeepSeekURL = os.Getenv("DEEPSEEK_API_URL")
	cfg.DeepSeekModel = getEnv("DEEPSEEK_MODEL", "deepseek-chat")

	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	cfg.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 10)
	cfg.RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)

	cfg.LowStockThreshold = getEnvFloat("LOW_STOCK_THRESHOLD", 5)
}

// loadEnvSecrets loads secrets from plain environment variables (CI and tests)
func loadEnvSecrets(cfg *Config) {
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.PINHash = os.Getenv("PIN_HASH")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.DeepSeekAPIKey = os.Getenv("DEEPSEEK_API_KEY")
}

// loadDevSecrets prefers Docker secrets and falls back to the environment
func loadDevSecrets(cfg *Config) {
	loadEnvSecrets(cfg)
	for name, dst := range secretTargets(cfg) {
		if v := readSecret(name); v != "" {
			*dst = v
		}
	}
}

// loadProdSecrets loads secrets using ONLY Docker secrets
func loadProdSecrets(cfg *Config) {
	for name, dst := range secretTargets(cfg) {
		*dst = readSecret(name)
	}
}

func secretTargets(cfg *Config) map[string]*string {
	return map[string]*string{
		"db_password":      &cfg.DBPassword,
		"redis_password":   &cfg.RedisPassword,
		"jwt_secret":       &cfg.JWTSecret,
		"pin_hash":         &cfg.PINHash,
		"gemini_api_key":   &cfg.GeminiAPIKey,
		"deepseek_api_key": &cfg.DeepSeekAPIKey,
	}
}

// SecretsDir returns the Docker secrets directory
func SecretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(SecretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// AssistantAPIKey returns the key of the configured assistant provider.
func (c *Config) AssistantAPIKey() string {
	if c.AssistantProvider == "deepseek" {
		return c.DeepSeekAPIKey
	}
	return c.GeminiAPIKey
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
