package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server Server
	Mongo  Mongo
	Redis  Redis
	Logger Logger
	Auth   Auth
	Seed   Seed
}

// Server holds HTTP server configuration.
type Server struct {
	Host string
	Port int
}

// Mongo holds document store configuration.
type Mongo struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// Redis holds the optional cart cache configuration.
type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Logger holds logger configuration.
type Logger struct {
	Level  string
	Format string // "json" or "console"
}

// Auth holds token verification configuration.
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Seed holds catalogue seeding configuration. Fixtures come either from a
// local JSON file or from a gzipped object in S3.
type Seed struct {
	Enabled  bool
	S3       bool
	Bucket   string
	Region   string
	Key      string
	FilePath string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: Server{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Mongo: Mongo{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "bakehouse"),
			ConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
			QueryTimeout:   time.Duration(getEnvAsInt("MONGO_QUERY_TIMEOUT", 5)) * time.Second,
		},
		Redis: Redis{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		},
		Seed: Seed{
			Enabled:  getEnvAsBool("SEED_ENABLED", false),
			S3:       getEnvAsBool("SEED_S3", false),
			Bucket:   getEnv("SEED_S3_BUCKET", ""),
			Region:   getEnv("SEED_S3_REGION", "us-east-1"),
			Key:      getEnv("SEED_S3_KEY", "fixtures/products.json.gz"),
			FilePath: getEnv("SEED_FILE", "fixtures/products.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}

	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}

	if c.Mongo.ConnectTimeout <= 0 || c.Mongo.QueryTimeout <= 0 {
		return fmt.Errorf("mongo timeouts must be positive")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Seed.Enabled && c.Seed.S3 {
		if c.Seed.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 seeding is enabled")
		}
		if c.Seed.Region == "" {
			return fmt.Errorf("S3 region is required when S3 seeding is enabled")
		}
	}

	return nil
}

// Address returns the server address.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
