package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listdex/internal/config"
	dbRedis "github.com/kailas-cloud/listdex/internal/db/redis"
	logpkg "github.com/kailas-cloud/listdex/internal/logger"
	"github.com/kailas-cloud/listdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/listdex/internal/repository/catalog"
	categoryrepo "github.com/kailas-cloud/listdex/internal/repository/category"
	"github.com/kailas-cloud/listdex/internal/repository/textindex"
	"github.com/kailas-cloud/listdex/internal/transport/chiserver"
	healthuc "github.com/kailas-cloud/listdex/internal/usecase/health"
	listinguc "github.com/kailas-cloud/listdex/internal/usecase/listing"
	"github.com/kailas-cloud/listdex/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/listdex/internal/usecase/search"
	"github.com/kailas-cloud/listdex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting listdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	index, err := textindex.New(cfg.Index.Dir)
	if err != nil {
		logger.Fatal("Failed to open text index", zap.Error(err))
	}
	defer func() { _ = index.Close() }()

	metrics.RegisterSearchMetrics()

	catalog := catalogrepo.New(store, cfg.Storage.KeyPrefix)

	categories, err := categoryrepo.NewDirectory()
	if err != nil {
		logger.Fatal("Failed to load category directory", zap.Error(err))
	}

	rebuildIndexIfEmpty(ctx, catalog, index, logger)

	searchSvc := searchuc.New(catalog, index, ranking.New(), categories,
		searchuc.Limits{Default: cfg.Search.SearchLimit, Max: cfg.Search.MaxLimit}, logger)
	listingSvc := listinguc.New(catalog, index, categories, logger)
	healthSvc := healthuc.New(store, index)

	server := chiserver.NewServer(searchSvc, listingSvc, categories, healthSvc,
		chiserver.PageSizes{
			Search: cfg.Search.SearchLimit,
			Browse: cfg.Search.BrowseLimit,
		}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// rebuildIndexIfEmpty replays the catalog into the text index. The in-memory
// index starts empty on every boot; a persistent one only needs this after
// the index directory was lost.
func rebuildIndexIfEmpty(
	ctx context.Context, catalog *catalogrepo.Repo, index *textindex.Index, logger *zap.Logger,
) {
	count, err := index.DocCount()
	if err != nil {
		logger.Warn("Text index doc count failed, skipping rebuild", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	listings, err := catalog.ByRecency(ctx, 0)
	if err != nil {
		logger.Warn("Catalog scan for index rebuild failed", zap.Error(err))
		return
	}
	indexed := 0
	for _, l := range listings {
		if err := index.Index(ctx, l); err != nil {
			logger.Warn("Indexing listing during rebuild failed",
				zap.String("listing_id", l.ID().String()),
				zap.Error(err),
			)
			continue
		}
		indexed++
	}
	logger.Info("Text index rebuilt from catalog", zap.Int("listings", indexed))
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
