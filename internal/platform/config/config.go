package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	BlobLocal = "local"
	BlobGCS   = "gcs"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	DBDriver       string
	DatabaseURL    string
	SQLitePath     string
	MigrationsPath string // golang-migrate source URL; empty uses the embedded schema
	EnableDBCheck  bool
	DBMaxConns     int32

	JWTSecret string

	// Optional distributed owner locks; in-process locks are used when empty.
	RedisURL string
	LockTTL  time.Duration

	BlobDriver         string
	BlobLocalDir       string
	GCSBucket          string
	GCSCredentialsJSON string
	MaxAttachmentBytes int64

	// Posting events are published only when both are set.
	PubSubProjectID string
	PubSubTopic     string

	CORSAllowedOrigins []string
	RateLimit          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "trust_ledger.db")
	viper.SetDefault("MIGRATIONS_PATH", "")
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("DB_MAX_CONNS", 0)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOCK_TTL", "30s")
	viper.SetDefault("BLOB_DRIVER", BlobLocal)
	viper.SetDefault("BLOB_LOCAL_DIR", "storage/attachments")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_JSON", "")
	viper.SetDefault("MAX_ATTACHMENT_BYTES", 10*1024*1024)
	viper.SetDefault("PUBSUB_PROJECT_ID", "")
	viper.SetDefault("PUBSUB_TOPIC", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		DBDriver:           strings.ToLower(viper.GetString("DB_DRIVER")),
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		SQLitePath:         viper.GetString("SQLITE_PATH"),
		MigrationsPath:     viper.GetString("MIGRATIONS_PATH"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:         viper.GetInt32("DB_MAX_CONNS"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		RedisURL:           viper.GetString("REDIS_URL"),
		BlobDriver:         strings.ToLower(viper.GetString("BLOB_DRIVER")),
		BlobLocalDir:       viper.GetString("BLOB_LOCAL_DIR"),
		GCSBucket:          viper.GetString("GCS_BUCKET"),
		GCSCredentialsJSON: viper.GetString("GCS_CREDENTIALS_JSON"),
		MaxAttachmentBytes: viper.GetInt64("MAX_ATTACHMENT_BYTES"),
		PubSubProjectID:    viper.GetString("PUBSUB_PROJECT_ID"),
		PubSubTopic:        viper.GetString("PUBSUB_TOPIC"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:          viper.GetString("RATE_LIMIT"),
	}

	lockTTLStr := viper.GetString("LOCK_TTL")
	lockTTL, err := time.ParseDuration(lockTTLStr)
	if err != nil || lockTTL <= 0 {
		lockTTL = 30 * time.Second
		log.Printf("Warning: Invalid value for LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lockTTL)
	}
	cfg.LockTTL = lockTTL

	if cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL must be set when DB_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set when DB_DRIVER=%s", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.BlobDriver {
	case BlobLocal:
		if c.BlobLocalDir == "" {
			return fmt.Errorf("BLOB_LOCAL_DIR must be set when BLOB_DRIVER=%s", BlobLocal)
		}
	case BlobGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET must be set when BLOB_DRIVER=%s", BlobGCS)
		}
	default:
		return fmt.Errorf("unsupported BLOB_DRIVER %q", c.BlobDriver)
	}
	if c.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("MAX_ATTACHMENT_BYTES must be positive")
	}
	return nil
}

// PublishEvents reports whether posting events should go to Pub/Sub.
func (c *Config) PublishEvents() bool {
	return c.PubSubProjectID != "" && c.PubSubTopic != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
