package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64

	// Optional sales log ingested at startup as the initial dataset.
	SalesDataPath string

	CatalogAPIURL   string
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration

	EnrichedOutputPath string
	ReportOutputPath   string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,

		SalesDataPath: getEnv("SALES_DATA_PATH", "data/sales_data.txt"),

		CatalogAPIURL:   getEnv("CATALOG_API_URL", "https://dummyjson.com/products?limit=100"),
		CatalogTimeout:  getEnvAsDuration("CATALOG_TIMEOUT", 20*time.Second),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 1*time.Hour),

		EnrichedOutputPath: getEnv("ENRICHED_OUTPUT_PATH", "data/enriched_sales_data.txt"),
		ReportOutputPath:   getEnv("REPORT_OUTPUT_PATH", "output/sales_report.txt"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, CatalogAPIURL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.CatalogAPIURL)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
