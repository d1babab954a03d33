package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finassist/internal/adapters/ai"
	"finassist/internal/adapters/cache"
	"finassist/internal/adapters/chartrenderer"
	"finassist/internal/adapters/clickhouse"
	"finassist/internal/adapters/config"
	"finassist/internal/adapters/embeddings"
	"finassist/internal/adapters/errors/noop"
	"finassist/internal/adapters/errors/sentry"
	"finassist/internal/adapters/marketdata"
	"finassist/internal/adapters/newsfeed"
	"finassist/internal/adapters/newsgraph"
	"finassist/internal/adapters/postgres"
	redisadapter "finassist/internal/adapters/redis"
	"finassist/internal/adapters/semanticindex"
	"finassist/internal/adapters/symbols"
	"finassist/internal/adapters/tracer"
	"finassist/internal/api"
	"finassist/internal/api/health"
	"finassist/internal/api/query"
	"finassist/internal/metrics"
	"finassist/internal/orchestrator"
	"finassist/internal/orchestrator/agents"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	pgClient, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pgClient.Close()

	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("failed to connect to clickhouse: %v", err)
	}
	defer chClient.Close()

	redisClient, err := redisadapter.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	metrics.Init()
	metrics.RegisterCustomCollector(metrics.NewCustomCollector(log, pgClient.DB(), chClient.Conn(), redisClient.Client()))

	deps := buildDeps(cfg, pgClient, chClient, redisClient, errorTracker, log)
	orch := orchestrator.New(deps, orchestratorConfig(cfg))

	healthHandler := health.New(log, pgClient.DB(), chClient.Conn(), redisClient.Client(), cfg.App.Name, "1.0.0")
	queryHandler := query.New(orch, log)

	server := api.NewServer(api.ServerConfig{
		Port:        8080,
		ServiceName: cfg.App.Name,
		Version:     "1.0.0",
	}, healthHandler, queryHandler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			log.Errorf("http server error: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, server, errorTracker, log)
}

func buildDeps(
	cfg *config.Config,
	pgClient *postgres.Client,
	chClient *clickhouse.Client,
	redisClient *redisadapter.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) orchestrator.Deps {
	llm, err := ai.NewOpenAIModel(cfg.AI.OpenAIKey, cfg.AI.ChatModel, 0)
	if err != nil {
		log.Fatalf("failed to init language model: %v", err)
	}

	embedProvider, err := embeddings.NewProvider(embeddings.Config{
		Provider: embeddings.ProviderOpenAI,
		APIKey:   cfg.AI.OpenAIKey,
		Model:    cfg.AI.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("failed to init embedding provider: %v", err)
	}
	embedder := embeddings.AsEmbedder{Provider: embedProvider}

	marketClient := marketdata.NewHTTPClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Timeout)
	symbolLookup := symbols.NewPostgresLookup(pgClient)
	semanticIdx := semanticindex.NewPgvectorIndex(pgClient.DB(), embedder)
	newsGraph := newsgraph.NewClickHouseGraph(chClient.Conn())
	newsFeed := newsfeed.NewRSSClient(cfg.NewsFeed.BaseURL, cfg.NewsFeed.Timeout)
	redisCache := cache.NewRedisCache(redisClient, 0, 0)
	chartRenderer := chartrenderer.New()
	spanTracer := tracer.New(errorTracker)

	return orchestrator.Deps{
		LLM:        llm,
		Symbols:    symbolLookup,
		Market:     marketClient,
		Semantic:   semanticIdx,
		NewsGraph:  newsGraph,
		NewsFeed:   newsFeed,
		Translator: llm,
		Charts:     chartRenderer,
		Tracer:     spanTracer,
		Embedder:   embedder,
		Cache:      redisCache,
		Agents:     agents.NewRegistry(),
	}
}

func orchestratorConfig(cfg *config.Config) orchestrator.Config {
	c := orchestrator.DefaultConfig()
	c.WorkerPoolSize = cfg.Orchestrator.WorkerPoolSize
	c.RequestTimeout = cfg.Orchestrator.RequestTimeout
	c.MaxGraphHops = cfg.Orchestrator.MaxGraphHops
	return c
}

func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	t, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return t
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *api.Server, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Warnf("Failed to shut down HTTP server: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(context.Background()); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
