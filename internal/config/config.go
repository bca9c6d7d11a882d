package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Import    ImportConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogLevel         string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
	AutoMigrate     bool
	Seed            bool
	MigrationsPath  string
	SeedsPath       string
}

// ImportConfig bounds spreadsheet uploads and the import pipeline
type ImportConfig struct {
	MaxUploadBytes     int64
	CommitMaxBytes     int64
	AllowedExtensions  []string
	DefaultCurrency    string
	Workers            int
	Timeout            time.Duration
	FinderMaxFailures  int
	FinderResetTimeout time.Duration
}

type RateLimitConfig struct {
	PerSecond int
	Burst     int
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8000"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			Environment:     getEnv("APP_ENV", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "finance_user"),
			Password:        getEnv("DB_PASSWORD", "finance_password"),
			Name:            getEnv("DB_NAME", "finance_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			LogQueries:      getBoolEnv("DB_LOG_QUERIES", false),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", false),
			Seed:            getBoolEnv("SEED_DATABASE", false),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "db/migrations"),
			SeedsPath:       getEnv("SEEDS_PATH", "db/seeds"),
		},
		Import: ImportConfig{
			MaxUploadBytes:     getInt64Env("UPLOAD_MAX_BYTES", 10*1024*1024),
			CommitMaxBytes:     getInt64Env("COMMIT_MAX_BYTES", 0),
			AllowedExtensions:  getListEnv("UPLOAD_ALLOWED_EXTENSIONS", []string{".xlsx", ".xls"}),
			DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "HUF")),
			Workers:            getIntEnv("IMPORT_WORKERS", 4),
			Timeout:            getDurationEnv("UPLOAD_TIMEOUT", 60*time.Second),
			FinderMaxFailures:  getIntEnv("DUPLICATE_LOOKUP_MAX_FAILURES", 5),
			FinderResetTimeout: getDurationEnv("DUPLICATE_LOOKUP_RESET_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			Burst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
	}

	config.Import.AllowedExtensions = normalizeExtensions(config.Import.AllowedExtensions)
	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	return config
}

// commitBytesPerUploadByte sizes the default commit body from the upload
// limit: an xlsx is zip-compressed while the same rows committed as JSON are not
const commitBytesPerUploadByte = 8

// CommitLimit is the largest accepted transaction request body. It defaults
// to a multiple of MaxUploadBytes when COMMIT_MAX_BYTES is unset.
func (c *ImportConfig) CommitLimit() int64 {
	if c.CommitMaxBytes > 0 {
		return c.CommitMaxBytes
	}
	return c.MaxUploadBytes * commitBytesPerUploadByte
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.TimeZone)
}

// Address returns the listen address of the HTTP server
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated variable, dropping blank entries
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// loadCORSAllowOrigins reads CORS_ALLOW_ORIGINS, then FRONTEND_URL, and defaults to all origins
func (c *Config) loadCORSAllowOrigins() []string {
	if origins := getListEnv("CORS_ALLOW_ORIGINS", nil); len(origins) > 0 {
		log.Printf("CORS allowed origins configured: %v", origins)
		return origins
	}

	if frontend := strings.TrimSpace(os.Getenv("FRONTEND_URL")); frontend != "" {
		log.Printf("CORS allowed origin taken from FRONTEND_URL: %s", frontend)
		return []string{frontend}
	}

	if c.IsProduction() {
		log.Println("WARNING: neither CORS_ALLOW_ORIGINS nor FRONTEND_URL set in production, allowing all origins")
	} else {
		log.Println("INFO: CORS_ALLOW_ORIGINS not set, defaulting to '*' (all origins)")
	}
	return []string{"*"}
}
