package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/adapters/api"
	"github.com/andrescamacho/wargame-go/internal/adapters/broadcast"
	"github.com/andrescamacho/wargame-go/internal/adapters/catalog"
	"github.com/andrescamacho/wargame-go/internal/adapters/metrics"
	"github.com/andrescamacho/wargame-go/internal/adapters/persistence"
	"github.com/andrescamacho/wargame-go/internal/application/commands"
	"github.com/andrescamacho/wargame-go/internal/application/gamemaster"
	"github.com/andrescamacho/wargame-go/internal/application/generator"
	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/application/mediator"
	"github.com/andrescamacho/wargame-go/internal/application/simulation"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/infrastructure/config"
	"github.com/andrescamacho/wargame-go/internal/infrastructure/database"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search standard locations)")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)

	logger, err := config.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("daemon exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting wargame daemon",
		zap.String("database", cfg.Database.Type),
		zap.Int("port", cfg.Server.Port))

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database migrated")

	metrics.InitRegistry()
	collector := metrics.NewSimulationMetricsCollector()
	if err := collector.Register(); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	metrics.SetGlobalCollector(collector)

	clock := shared.NewWallClock()

	hub := broadcast.NewHub(logger)
	publisher := broadcast.NewPublisher(hub)
	wsServer := broadcast.NewWebsocketServer(hub, logger)

	scenarioRepo := persistence.NewGormScenarioRepository(db)
	simRepo := persistence.NewGormSimulationRepository(db)
	docRepo := persistence.NewGormDocumentRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	missionRepo := persistence.NewGormMissionRepository(db)
	spaceRepo := persistence.NewGormSpaceRepository(db)
	eventRepo := persistence.NewGormEventRepository(db)
	baseRepo := persistence.NewGormBaseRepository(db)
	genLogRepo := persistence.NewGormGenerationLogRepository(db)
	ingestLogRepo := persistence.NewGormIngestLogRepository(db)

	llmClient := llm.NewClient(llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		FlagshipModel:     cfg.LLM.FlagshipModel,
		MidRangeModel:     cfg.LLM.MidRangeModel,
		FastModel:         cfg.LLM.FastModel,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerSecond: cfg.LLM.RateLimit.Requests,
		Burst:             cfg.LLM.RateLimit.Burst,
	})
	retrier := llm.NewRetrier(llmClient, genLogRepo, publisher, clock, logger)

	pipeline := ingest.NewPipeline(llmClient, retrier, scenarioRepo, docRepo, orderRepo,
		eventRepo, ingestLogRepo, publisher, clock, logger)
	gen := generator.NewGenerator(llmClient, retrier, scenarioRepo, docRepo, baseRepo,
		orderRepo, spaceRepo, eventRepo, publisher, logger)
	gm := gamemaster.NewGameMaster(llmClient, retrier, pipeline, scenarioRepo, docRepo,
		orderRepo, missionRepo, spaceRepo, baseRepo, eventRepo, publisher, clock, logger)

	controller := simulation.NewController(simulation.Options{
		CompressionRatio: cfg.Simulation.CompressionRatio,
		TickInterval:     cfg.Simulation.TickInterval,
		PositionInterval: cfg.Simulation.PositionInterval,
		CoverageEvery:    cfg.Simulation.CoverageEvery,
		LeadTimeFactor:   cfg.Simulation.LeadTimeFactor,
	}, scenarioRepo, simRepo, missionRepo, orderRepo, spaceRepo, eventRepo, docRepo,
		gm, publisher, clock, logger)

	med := mediator.New()
	med.RegisterMiddleware(commands.LoggingMiddleware(logger))
	if err := commands.Register(med, gen, pipeline); err != nil {
		return fmt.Errorf("failed to register command handlers: %w", err)
	}
	dispatcher := commands.NewDispatcher(med)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Catalog.BaseURL != "" && cfg.Catalog.Username != "" {
		elsetClient := catalog.NewElsetClient(&cfg.Catalog, clock, logger)
		refresher := catalog.NewRefresher(elsetClient, spaceRepo, controller, cfg.Catalog.CacheTTL, logger)
		go refresher.Run(ctx)
		logger.Info("elset refresher started", zap.String("base_url", cfg.Catalog.BaseURL))
	}

	server := api.NewServer(api.Deps{
		DB:             db,
		Scenarios:      scenarioRepo,
		Sims:           simRepo,
		Docs:           docRepo,
		Orders:         orderRepo,
		Missions:       missionRepo,
		Spaces:         spaceRepo,
		Bases:          baseRepo,
		Events:         eventRepo,
		IngestLogs:     ingestLogRepo,
		Generator:      dispatcher,
		Ingester:       dispatcher,
		Controller:     controller,
		Websocket:      wsServer,
		Metrics:        promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            logger,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	if _, err := controller.Stop(context.Background()); err != nil {
		logger.Debug("no running simulation to stop", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}

	logger.Info("daemon stopped")
	return nil
}
