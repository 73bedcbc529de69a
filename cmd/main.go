package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gorilla/mux"

	"github.com/islomkhodja/samsara-fuel-monitor/internal/aggregator"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/config"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/handlers"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/model"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/poller"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/provider"
	"github.com/islomkhodja/samsara-fuel-monitor/internal/storage"
)

func main() {
	// Setup structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	if len(cfg.SamsaraTokens) == 0 {
		slog.Warn("No Samsara tokens configured (SAMSARA_API_TOKENS), vendor will contribute no vehicles")
	}
	if len(cfg.MotiveTokens) == 0 {
		slog.Warn("No Motive tokens configured (MOTIVE_API_TOKENS), vendor will contribute no vehicles")
	}

	vendors := []aggregator.Vendor{
		{Source: provider.NewSamsara("", cfg.RequestTimeout), Tokens: cfg.SamsaraTokens},
		{Source: provider.NewMotive("", cfg.RequestTimeout), Tokens: cfg.MotiveTokens},
	}
	merge := func(ctx context.Context) []model.Vehicle {
		return aggregator.Merge(ctx, vendors)
	}
	vehiclePoller := poller.New(merge, cfg.RefreshInterval, cfg.FreshnessWindow)

	// Initialize preferences storage based on environment
	var prefsStorage storage.PreferencesStorage
	switch cfg.StorageType {
	case "dynamodb":
		if cfg.DynamoTable == "" {
			slog.Error("DYNAMODB_PREFERENCES_TABLE environment variable not set")
			os.Exit(1)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			slog.Error("Failed to load AWS config", "error", err)
			os.Exit(1)
		}
		prefsStorage = storage.NewDynamoDBPreferencesStorage(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable)
		slog.Info("Using DynamoDB preferences storage", "table", cfg.DynamoTable)
	case "sqlite":
		sqliteStorage, err := storage.NewSQLitePreferencesStorage(cfg.SQLitePath)
		if err != nil {
			slog.Error("Failed to open SQLite preferences storage", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer sqliteStorage.Close()
		prefsStorage = sqliteStorage
		slog.Info("Using SQLite preferences storage", "path", cfg.SQLitePath)
	default:
		prefsStorage = storage.NewMemoryPreferencesStorage()
		slog.Info("Using in-memory preferences storage")
	}

	httpHandler := handlers.NewHTTPHandler(vehiclePoller, prefsStorage)

	router := mux.NewRouter()
	httpHandler.RegisterRoutes(router)

	// Add CORS middleware for frontend
	router.Use(corsMiddleware)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	go vehiclePoller.Run(pollCtx)

	go func() {
		slog.Info("Fuel monitor starting", "port", cfg.Port, "refresh_interval", cfg.RefreshInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Fuel monitor failed to start", "error", err)
			os.Exit(1)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	slog.Info("Shutdown initiated")

	cancelPoll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
}

// corsMiddleware adds CORS headers for frontend access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
