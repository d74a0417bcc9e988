package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// The database is only required when the postgres report store is selected.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the upload archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MarketConfig holds settings for the external market data gateway client.
type MarketConfig struct {
	BaseURL       string
	TimeoutSec    int
	CacheTTLSec   int
	CacheMaxItems int
	HistoryRange  string
}

// ValidateConfig holds CSV validation settings.
// Schema is a compact column description, e.g.
// "ticker:string:required,shares:number:required,price:number:required".
type ValidateConfig struct {
	Schema       string
	MaxUploadMB  int
	SampleRows   int
	ArchiveToS3  bool
	HoldingsPath string
}

// ReportStoreConfig selects and configures the report store backend.
// Backend is "file" (one JSON artifact per report under Dir) or "postgres".
type ReportStoreConfig struct {
	Backend string
	Dir     string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	StaticDir string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Market    MarketConfig
	Validate  ValidateConfig
	Reports   ReportStoreConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:   getEnv("APP_HOST", "localhost:8080"),
		Port:      getEnv("PORT", "8080"),
		StaticDir: getEnv("STATIC_DIR", "./static"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Market: MarketConfig{
			BaseURL:       getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			TimeoutSec:    getEnvInt("MARKET_TIMEOUT_SEC", 10),
			CacheTTLSec:   getEnvInt("MARKET_CACHE_TTL_SEC", 60),
			CacheMaxItems: getEnvInt("MARKET_CACHE_MAX_ITEMS", 1000),
			HistoryRange:  getEnv("MARKET_HISTORY_RANGE", "5y"),
		},
		Validate: ValidateConfig{
			Schema:       getEnv("VALIDATE_SCHEMA", "ticker:string:required,shares:number:required,price:number:required"),
			MaxUploadMB:  getEnvInt("VALIDATE_MAX_UPLOAD_MB", 8),
			SampleRows:   getEnvInt("VALIDATE_SAMPLE_ROWS", 5),
			ArchiveToS3:  getEnvBool("VALIDATE_ARCHIVE_UPLOADS", false),
			HoldingsPath: getEnv("HOLDINGS_CSV", "portfolio.csv"),
		},
		Reports: ReportStoreConfig{
			Backend: getEnv("REPORT_STORE", "file"),
			Dir:     getEnv("REPORT_DIR", "validation_reports"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
