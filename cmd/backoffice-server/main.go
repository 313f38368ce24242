// cmd/backoffice-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tour-backoffice/internal/api"
	"tour-backoffice/internal/common/aws"
	"tour-backoffice/internal/common/config"
	"tour-backoffice/internal/common/database"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/common/observability"
	"tour-backoffice/internal/notify"
	"tour-backoffice/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting back office server",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Backend),
	)

	obs := observability.New(cfg.App.Name)

	ctx := context.Background()
	checks := map[string]api.ReadinessCheck{}

	// --- Record store ---
	var repo store.Repository
	switch cfg.Store.Backend {
	case config.BackendMemory:
		repo = store.NewMemoryRepository()
		zapLog.Warn("using in-memory record store, data is lost on restart")
	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		pgRepo := store.NewPostgresRepository(pg, log)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("record schema setup failed", zap.Error(err))
		}
		repo = pgRepo
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	if cfg.Store.CacheTTL > 0 {
		redis := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()

		repo = store.NewCachedRepository(repo, redis, config.GetDuration(cfg.Store.CacheTTL), log)
		checks["redis"] = redis.Ping
		zapLog.Info("Redis connected successfully")
	}

	serviceOpts := api.WriteHooks()
	var search api.SupplierSearcher
	if cfg.Store.Search {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		created, err := esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.SupplierIdx, store.SupplierMapping)
		if err != nil {
			zapLog.Fatal("supplier index setup failed", zap.Error(err))
		}
		if created {
			zapLog.Info("supplier index created", zap.String("index", cfg.Database.Elasticsearch.SupplierIdx))
		}

		index := store.NewSupplierIndex(esClient.Client, cfg.Database.Elasticsearch.SupplierIdx, log)
		serviceOpts = append(serviceOpts, store.WithIndexer(index))
		search = index
		checks["elasticsearch"] = esClient.Ping
		zapLog.Info("Elasticsearch connected successfully")
	}

	records := store.NewService(repo, log, serviceOpts...)

	// --- Email ---
	var sesClient notify.SESService
	if cfg.Notify.Email.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Notify.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		sesClient = client
		zapLog.Info("SES client initialized", zap.String("region", cfg.Notify.AWS.Region))
	}
	mailer := notify.NewMailer(sesClient, cfg.Notify.Email.FromEmail, cfg.Notify.Email.Enabled, log)

	// --- HTTP server ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Records:     records,
		Search:      search,
		Mailer:      mailer,
		Obs:         obs,
		Logger:      log,
		Server:      cfg.Server,
		Documents:   cfg.Documents,
		Spreadsheet: cfg.Spreadsheet,
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("Back office server stopped gracefully")
}
