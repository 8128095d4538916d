package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nlquery/internal/config"
	"github.com/kailas-cloud/nlquery/internal/db"
	dbMemory "github.com/kailas-cloud/nlquery/internal/db/memory"
	dbMongo "github.com/kailas-cloud/nlquery/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/nlquery/internal/db/redis"
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	logpkg "github.com/kailas-cloud/nlquery/internal/logger"
	"github.com/kailas-cloud/nlquery/internal/metrics"
	"github.com/kailas-cloud/nlquery/internal/repository/draftcache"
	"github.com/kailas-cloud/nlquery/internal/repository/records"
	chiTransport "github.com/kailas-cloud/nlquery/internal/transport/chi"
	openaiTr "github.com/kailas-cloud/nlquery/internal/transport/openai"
	healthuc "github.com/kailas-cloud/nlquery/internal/usecase/health"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
	"github.com/kailas-cloud/nlquery/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nlquery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("translator_model", cfg.Translator.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, layout, addr, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	whitelist := schema.Students(addr)
	registry := canon.Academic()

	if err := prepareStore(ctx, store, cfg.Database, whitelist, layout, logger); err != nil {
		logger.Fatal("Failed to prepare database", zap.Error(err))
	}

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterNLQMetrics()

	translator := openaiTr.NewTranslator(&openaiTr.Config{
		APIKey:      cfg.Translator.APIKey,
		BaseURL:     cfg.Translator.BaseURL,
		Model:       cfg.Translator.Model,
		Temperature: cfg.Translator.Temperature,
		MaxTokens:   cfg.Translator.MaxTokens,
		JSONMode:    cfg.Translator.JSONMode,
		Provider:    cfg.Translator.Provider,
		Logger:      logger,
	}, whitelist, registry)

	cache := draftcache.New(metrics.DraftCacheTotal, logger)
	go cache.Run(ctx, time.Duration(cfg.Cache.SweepIntervalSec)*time.Second)

	exec := nlq.NewExecutor(records.New(store, layout), record.Students)
	querySvc := nlq.New(translator, cache, exec, whitelist, registry,
		nlq.WithTranslateTimeout(time.Duration(cfg.Query.TranslateTimeoutSec)*time.Second),
		nlq.WithMetrics(metrics.QueriesTotal, metrics.QueryResults),
	)

	healthSvc := healthuc.New(store, translator)

	server := chiTransport.NewServer(querySvc, healthSvc, whitelist, registry, logger)
	handler := server.Handler(
		chiTransport.JSONRecoverer(logger),
		chiMiddleware.RequestID,
		chiTransport.RequestLogger(logger),
		chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys),
		chiTransport.RateLimiter(ctx, chiTransport.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			IdleTTL:           time.Duration(cfg.RateLimit.IdleTTLSec) * time.Second,
		}),
		metrics.Middleware(),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the record store for the configured driver together
// with where records live in it and how fields are addressed.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, records.Layout, schema.Addresser, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, records.Layout{}, nil, fmt.Errorf("redis: %w", err)
		}
		return s, records.RedisLayout(), schema.AttributeAlias, nil
	case config.DriverMongo:
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:            cfg.URI,
			Database:       cfg.Name,
			ConnectTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
		})
		if err != nil {
			return nil, records.Layout{}, nil, fmt.Errorf("mongo: %w", err)
		}
		return s, records.CollectionLayout(cfg.Collection), schema.DotPath, nil
	case config.DriverMemory:
		return dbMemory.NewStore(), records.CollectionLayout(cfg.Collection), schema.DotPath, nil
	default:
		return nil, records.Layout{}, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// prepareStore creates the Redis search index and loads the memory seed.
func prepareStore(
	ctx context.Context,
	store db.Store,
	cfg config.DatabaseConfig,
	w *schema.Whitelist,
	layout records.Layout,
	logger *zap.Logger,
) error {
	switch s := store.(type) {
	case db.IndexManager:
		def, err := records.BuildIndex(w, layout)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		created, err := records.EnsureIndex(ctx, s, def)
		if err != nil {
			return err
		}
		logger.Info("Search index ready", zap.String("index", def.Name), zap.Bool("created", created))
	case *dbMemory.Store:
		if cfg.SeedFile == "" {
			logger.Warn("In-memory store has no seed file, every query will return no records")
			return nil
		}
		n, err := s.LoadFile(ctx, layout.Collection, cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
		logger.Info("Seeded in-memory store", zap.String("file", cfg.SeedFile), zap.Int("records", n))
	}
	return nil
}
