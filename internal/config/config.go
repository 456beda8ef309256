package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_ssl_mode"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`

	// Seeded admin account. This is the protected account: it can never be
	// edited or deleted through the API.
	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], TokenTTLMinutes: %d, AdminEmail: %s, AdminPassword: [REDACTED]}",
		c.Port, c.Host, c.DBDriver, c.DBPath, c.DBHost, c.DBPort, c.DBName, c.DBUser, c.LogLevel, c.TokenTTLMinutes, c.AdminEmail)
}

// LoadConfig reads the application configuration from environment variables
// and returns a Config struct.
// Returns an error if any required environment variable is missing or invalid.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	tokenTTL := GetEnvAsType("TOKEN_TTL_MINUTES", 60)
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", tokenTTL)
	}

	config := &Config{
		Port:            port,
		Host:            GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:        GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:          GetEnvWithDefault("DB_PATH", "userbase.sqlite"),
		DBHost:          GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:          GetEnvWithDefault("DB_PORT", "5432"),
		DBName:          GetEnvWithDefault("DB_NAME", "userbase"),
		DBUser:          GetEnvWithDefault("DB_USER", "user"),
		DBPassword:      GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:       GetEnvWithDefault("DB_SSL_MODE", "disable"),
		LogLevel:        GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:       GetEnvWithDefault("JWT_SECRET", "secret"),
		TokenTTLMinutes: tokenTTL,
		AdminName:       GetEnvWithDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:      GetEnvWithDefault("ADMIN_EMAIL", "admin@userbase.local"),
		AdminPassword:   GetEnvWithDefault("ADMIN_PASSWORD", "changeme"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
