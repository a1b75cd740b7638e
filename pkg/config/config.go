package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Gateway    GatewayConfig
	Directory  DirectoryConfig
	Summarizer SummarizerConfig
	Events     EventsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds token verification configuration. This service only
// verifies access tokens issued elsewhere; it never issues them.
type JWTConfig struct {
	AccessSecret string
}

// GatewayConfig holds permission-gateway client configuration
type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DirectoryConfig holds user-directory client configuration
type DirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SummarizerConfig holds AI summarization client configuration.
// The timeout sits far above the default RPC timeout because LLM calls on
// long transcripts routinely take over a minute.
type SummarizerConfig struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	TriggerThreshold int
}

// EventsConfig holds event-publishing configuration
type EventsConfig struct {
	Channel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "call_coordinator"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("PERMISSION_GATEWAY_URL", "http://localhost:8081"),
			Timeout: getEnvAsDuration("PERMISSION_GATEWAY_TIMEOUT", "5s"),
		},
		Directory: DirectoryConfig{
			BaseURL: getEnv("USER_DIRECTORY_URL", "http://localhost:8082"),
			Timeout: getEnvAsDuration("USER_DIRECTORY_TIMEOUT", "5s"),
		},
		Summarizer: SummarizerConfig{
			BaseURL:          getEnv("SUMMARIZER_URL", "http://localhost:8090"),
			APIKey:           getEnv("SUMMARIZER_API_KEY", ""),
			Timeout:          getEnvAsDuration("SUMMARIZER_TIMEOUT", "120s"),
			TriggerThreshold: getEnvAsInt("SUMMARY_TRIGGER_THRESHOLD", 100),
		},
		Events: EventsConfig{
			Channel: getEnv("EVENTS_CHANNEL", "video-call:events"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("PERMISSION_GATEWAY_URL is required")
	}
	if c.Directory.BaseURL == "" {
		return fmt.Errorf("USER_DIRECTORY_URL is required")
	}
	if c.Summarizer.TriggerThreshold <= 0 {
		return fmt.Errorf("SUMMARY_TRIGGER_THRESHOLD must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
