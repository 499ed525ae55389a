package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

const defaultMaxImportBytes = 5 << 20

// Config holds application configuration
type Config struct {
	// Server
	Port           string
	Env            string
	CORSOrigin     string
	MaxImportBytes int64

	// Storage
	StorageDriver string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	// JWT
	JWTSecret            string
	JWTExpirationDur     time.Duration
	RefreshExpirationDur time.Duration
	ResetTokenExpiration time.Duration

	// Categorization
	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterInvoiceModel string
	AMQPURL                string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		SQLitePath:    getEnv("SQLITE_PATH", "budgetwise.db"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "budgetwise"),
		DBPassword:    getEnv("DB_PASSWORD", "budgetwise"),
		DBName:        getEnv("DB_NAME", "budgetwise"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		OpenRouterAPIKey:       getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:        getEnv("OPENROUTER_MODEL", ""),
		OpenRouterInvoiceModel: getEnv("OPENROUTER_INVOICE_MODEL", ""),
		AMQPURL:                getEnv("AMQP_URL", ""),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.RefreshExpirationDur = getDuration("REFRESH_EXPIRES_IN", 7*24*time.Hour)
	config.ResetTokenExpiration = getDuration("RESET_TOKEN_EXPIRES_IN", time.Hour)
	config.MaxImportBytes = getInt64("MAX_IMPORT_BYTES", defaultMaxImportBytes)

	switch config.StorageDriver {
	case StoragePostgres, StorageSQLite, StorageMemory:
	default:
		log.Printf("Warning: unknown STORAGE_DRIVER '%s', falling back to %s\n", config.StorageDriver, StoragePostgres)
		config.StorageDriver = StoragePostgres
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the global configuration. Tests use it to pin secrets and
// expirations.
func Set(c *Config) {
	appConfig = c
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt64(key string, defaultValue int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
