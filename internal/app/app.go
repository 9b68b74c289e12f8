package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/bookmarks"
	"github.com/nsommier/hoard/internal/catalog"
	catalogmemory "github.com/nsommier/hoard/internal/catalog/memory"
	catalogredis "github.com/nsommier/hoard/internal/catalog/redis"
	"github.com/nsommier/hoard/internal/config"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/enrich"
	"github.com/nsommier/hoard/internal/httpserver"
	"github.com/nsommier/hoard/internal/httpserver/deps"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/providers"
	"github.com/nsommier/hoard/internal/redis"
	"github.com/nsommier/hoard/internal/scheduler"
	"github.com/nsommier/hoard/internal/version"
)

type App struct {
	cfg          *config.Config
	logger       logger.Logger
	server       *httpserver.Server
	redisClient  *goredis.Client
	queue        *enrich.Queue
	importRunner *scheduler.ImportRunner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Catalog store: Redis when configured, in-memory otherwise
	var store catalog.Store
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		store = catalogredis.NewStore(client)
		loggerClient.Info("redis catalog initialized")
	} else {
		store = catalogmemory.New()
		loggerClient.Warn("no redis configured, using in-memory catalog (data is not durable)")
	}

	// AI providers (optional)
	var embedder providers.Embedder
	var tagger providers.TagGenerator
	var insights providers.InsightGenerator
	if cfg.AIEndpoint != "" {
		ai := providers.NewAIClient(providers.AIClientOptions{
			Endpoint:   cfg.AIEndpoint,
			APIKey:     cfg.AIAPIKey,
			EmbedModel: cfg.EmbedModel,
			ChatModel:  cfg.ChatModel,
			Timeout:    cfg.ProviderTimeout,
		}, loggerClient)
		embedder, tagger, insights = ai, ai, ai
		loggerClient.Info("ai providers configured",
			logger.String("embed_model", cfg.EmbedModel),
			logger.String("chat_model", cfg.ChatModel))
	} else {
		loggerClient.Info("no ai endpoint configured, enrichment providers disabled")
	}

	extractor := providers.NewHTMLExtractor(cfg.ExtractTimeout, cfg.ExtractMaxBytes)

	// Enrichment pipeline
	enricher := enrich.New(store, embedder, tagger, insights, loggerClient, cfg.ProviderTimeout)
	queue := enrich.NewQueue(enricher, cfg.EnrichWorkers, cfg.EnrichQueueSize, loggerClient)

	normOpts := domain.NormalizeOptions{
		StripTracking:  cfg.StripTracking,
		TrackingParams: cfg.TrackingParams,
	}
	service := bookmarks.New(store, extractor, queue, loggerClient, normOpts, cfg.EnrichDepth)

	// Bulk import runner (if an import file is configured)
	var importRunner *scheduler.ImportRunner
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing import runner",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		importRunner = scheduler.NewImportRunner(
			cfg.ImportFile,
			service,
			loggerClient,
			cfg.ImportInterval,
			cfg.ImportWorkers,
			cfg.AutoEnrichImport,
			importTrigger,
		)
	} else {
		loggerClient.Info("import file not configured, bulk import disabled")
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Service:       service,
		RedisClient:   redisClient,
		ImportTrigger: importTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:          cfg,
		logger:       loggerClient,
		server:       server,
		redisClient:  redisClient,
		queue:        queue,
		importRunner: importRunner,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting hoard v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("hoard %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The queue gets its own context so buffered jobs can still drain after
	// the shutdown signal fires; provider timeouts bound each run.
	queueCtx, cancelQueue := context.WithCancel(context.Background())
	defer cancelQueue()
	a.queue.Start(queueCtx)

	if a.importRunner != nil {
		if err := a.importRunner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start import runner: %w", err)
		}
		a.logger.Info("import runner started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Silence the submitters first (import runner, then in-flight HTTP
	// handlers), then drain the enrichment buffer before closing stores.
	if a.importRunner != nil {
		a.importRunner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.queue.Stop()
	cancelQueue()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ hoard stopped cleanly")
	return nil
}
