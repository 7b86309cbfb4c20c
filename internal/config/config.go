package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"item-compare/internal/catalog"

	"github.com/joho/godotenv"
)

// Catalog source kinds.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Logger   LoggerConfig
	Catalog  CatalogConfig
	Compare  CompareConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Metrics  MetricsConfig
	S3       S3Config
	Database DatabaseConfig
}

// AppConfig holds service metadata reported by the info endpoints.
type AppConfig struct {
	Name        string
	Version     string
	APIVersion  string
	Environment string // "development", "staging" or "production"
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CatalogConfig describes where product data is loaded from.
type CatalogConfig struct {
	Source          string // "file", "s3" or "postgres"
	Path            string // file path, or object key below S3.Prefix
	Table           string // table name for the postgres source
	DefaultCurrency string
}

// CompareConfig holds the batch comparison bounds, both inclusive.
type CompareConfig struct {
	MinItems int
	MaxItems int
}

// CORSConfig holds allowed cross-origin callers.
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds authentication configuration. An empty APIKey disables
// the admin endpoints.
type AuthConfig struct {
	APIKey string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// S3Config holds AWS S3 configuration for catalog documents.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Path prefix within bucket (e.g., "catalog/")
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// Load loads configuration from environment variables. Variables from a
// .env file (or the file named by ENV_FILE) fill in anything not already set.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Item Comparison API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			APIVersion:  getEnv("API_VERSION", "v1"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Catalog: CatalogConfig{
			Source:          getEnv("CATALOG_SOURCE", SourceFile),
			Path:            getEnv("CATALOG_PATH", "data/products.json"),
			Table:           getEnv("CATALOG_TABLE", "products"),
			DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		},
		Compare: CompareConfig{
			MinItems: getEnvAsInt("COMPARE_MIN", 2),
			MaxItems: getEnvAsInt("COMPARE_MAX", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "catalog/"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "catalog"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
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

	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	if c.App.APIVersion == "" || strings.Contains(c.App.APIVersion, "/") {
		return fmt.Errorf("invalid API version: %q", c.App.APIVersion)
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

	if c.Compare.MinItems < 1 {
		return fmt.Errorf("compare minimum must be at least 1")
	}

	if c.Compare.MaxItems < c.Compare.MinItems {
		return fmt.Errorf("compare maximum cannot be less than compare minimum")
	}

	if _, ok := catalog.NormaliseCurrency(c.Catalog.DefaultCurrency); !ok {
		return fmt.Errorf("invalid default currency: %s (must be a 3-letter code)", c.Catalog.DefaultCurrency)
	}

	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for the file source")
		}
	case SourceS3:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for the S3 source")
		}
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the catalog source is s3")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when the catalog source is s3")
		}
	case SourcePostgres:
		if c.Catalog.Table == "" {
			return fmt.Errorf("catalog table is required for the postgres source")
		}
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be file, s3, or postgres)", c.Catalog.Source)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIPrefix returns the URL prefix of the versioned API, e.g. "/api/v1".
func (c *AppConfig) APIPrefix() string {
	return "/api/" + c.APIVersion
}

// loadEnvFile loads the .env file if present. A file named explicitly via
// ENV_FILE must exist.
func loadEnvFile() error {
	path, explicit := os.LookupEnv("ENV_FILE")
	if !explicit {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
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

// getEnvAsList splits a comma-separated environment variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
