package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/salesfolio/src/config"
	"github.com/username/salesfolio/src/handlers"
	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/parsers"
	"github.com/username/salesfolio/src/processors"
	"github.com/username/salesfolio/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Salesfolio server starting...")

	logger.L.Info("Initializing analytics cache...")
	analyticsCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	salesParser := parsers.NewSalesParser()
	transactionValidator := processors.NewTransactionValidator()
	analyticsProcessor := processors.NewAnalyticsProcessor()
	enrichmentProcessor := processors.NewEnrichmentProcessor()

	catalogService := services.NewCatalogService(
		config.Cfg.CatalogAPIURL,
		config.Cfg.CatalogTimeout,
		config.Cfg.CatalogCacheTTL,
		analyticsCache,
	)
	salesService := services.NewSalesService(
		salesParser, transactionValidator, analyticsProcessor,
		enrichmentProcessor, catalogService, analyticsCache,
		config.Cfg.EnrichedOutputPath,
		config.Cfg.ReportOutputPath,
	)
	salesHandler := handlers.NewSalesHandler(salesService)

	if _, err := os.Stat(config.Cfg.SalesDataPath); err == nil {
		logger.L.Info("Loading startup sales dataset", "path", config.Cfg.SalesDataPath)
		result, err := salesService.ProcessFile(config.Cfg.SalesDataPath)
		if err != nil {
			logger.L.Error("Failed to process startup sales dataset", "path", config.Cfg.SalesDataPath, "error", err)
		} else {
			logger.L.Info("Startup sales dataset processed",
				"datasetID", result.DatasetID,
				"parsed", result.ParsedCount,
				"valid", result.ValidCount,
				"enriched", result.MatchedCount)
		}
	} else {
		logger.L.Info("No startup sales dataset found, waiting for uploads", "path", config.Cfg.SalesDataPath)
	}

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/upload", salesHandler.HandleUpload)
	apiRouter.HandleFunc("GET /api/analytics/summary", salesHandler.HandleAnalyticsSummary)
	apiRouter.HandleFunc("GET /api/analytics/regions", salesHandler.HandleRegions)
	apiRouter.HandleFunc("GET /api/analytics/products/top", salesHandler.HandleTopProducts)
	apiRouter.HandleFunc("GET /api/analytics/products/low", salesHandler.HandleLowPerformers)
	apiRouter.HandleFunc("GET /api/analytics/customers", salesHandler.HandleCustomers)
	apiRouter.HandleFunc("GET /api/analytics/daily", salesHandler.HandleDailyTrend)
	apiRouter.HandleFunc("GET /api/analytics/peak-day", salesHandler.HandlePeakDay)
	apiRouter.HandleFunc("GET /api/enriched", salesHandler.HandleEnriched)
	apiRouter.HandleFunc("GET /api/report", salesHandler.HandleReport)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Salesfolio backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
