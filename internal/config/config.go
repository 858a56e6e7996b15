// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aplv/catalogo-api/internal/catalog"
)

// Catalog sources.
const (
	SourceDatabase = "database"
	SourceFile     = "file"
	SourceHTTP     = "http"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Auth        AuthConfig
	AWS         AWSConfig
	Catalog     CatalogConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

// AuthConfig controls admin sign-in with Google credentials.
type AuthConfig struct {
	GoogleClientID string
	AdminEmails    []string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type CatalogConfig struct {
	Source            string
	File              string
	URL               string
	UnknownGate       string
	Categories        bool
	DefaultExclusions []string
	MemoSize          int
	RefreshInterval   time.Duration
	LoadTimeout       time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "catalogo"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 12),
		},
		Auth: AuthConfig{
			GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
			AdminEmails:    getEnvAsList("ADMIN_EMAILS", nil),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "sa-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "catalogo-imagens"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Catalog: CatalogConfig{
			Source:            getEnv("CATALOG_SOURCE", SourceDatabase),
			File:              getEnv("CATALOG_FILE", "./content/produtos.json"),
			URL:               getEnv("CATALOG_URL", ""),
			UnknownGate:       getEnv("CATALOG_UNKNOWN_GATE", string(catalog.GateBroad)),
			Categories:        getEnvAsBool("CATALOG_CATEGORIES", true),
			DefaultExclusions: getEnvAsList("CATALOG_DEFAULT_EXCLUSIONS", nil),
			MemoSize:          getEnvAsInt("CATALOG_MEMO_SIZE", 256),
			RefreshInterval:   getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 0),
			LoadTimeout:       getEnvAsDuration("CATALOG_LOAD_TIMEOUT", 30*time.Second),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" && c.Catalog.Source == SourceDatabase {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Catalog.Source {
	case SourceDatabase:
	case SourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case SourceHTTP:
		if c.Catalog.URL == "" {
			return fmt.Errorf("CATALOG_URL is required when CATALOG_SOURCE=http")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	if _, err := catalog.NewModel(c.Catalog.Profile()); err != nil {
		return fmt.Errorf("invalid catalog profile: %w", err)
	}

	return nil
}

// Profile is the filter profile described by the catalog settings.
func (c CatalogConfig) Profile() catalog.Profile {
	return catalog.Profile{
		Gate:              catalog.GatePolicy(c.UnknownGate),
		Categories:        c.Categories,
		DefaultExclusions: c.DefaultExclusions,
	}
}

// IsAdmin reports whether email is on the admin allowlist.
func (a AuthConfig) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range a.AdminEmails {
		if strings.ToLower(allowed) == email {
			return true
		}
	}
	return false
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
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
	return out
}
