package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/api"
	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/badgerstore"
	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/asteroid-impact-service/internal/adapter/kafka"
	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/couchcryptid/asteroid-impact-service/internal/pipeline"
	"github.com/couchcryptid/asteroid-impact-service/internal/simulation"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFrom(cfg), logger)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	constants, err := config.LoadCalibration(cfg.CalibrationFile)
	if err != nil {
		logger.Error("failed to load calibration", "error", err, "path", cfg.CalibrationFile)
		os.Exit(1)
	}
	calcOpts := []domain.Option{domain.WithConstants(constants)}
	if cfg.RandomSeed != 0 {
		calcOpts = append(calcOpts, domain.WithRandomSource(domain.NewSeededSource(cfg.RandomSeed)))
		logger.Info("ocean fallback draws are seeded", "seed", cfg.RandomSeed)
	}
	calc := domain.NewCalculator(calcOpts...)

	store, err := badgerstore.Open(badgerstore.Config{
		Path:       cfg.StorePath,
		InMemory:   cfg.StoreInMemory,
		SyncWrites: true,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to open simulation store", "error", err, "path", cfg.StorePath)
		os.Exit(1)
	}

	// Asteroid feed (feature-flagged via NEOWS_ENABLED / NEOWS_API_KEY).
	var source domain.AsteroidSource
	if cfg.NeoWsEnabled {
		client := neows.NewClient(cfg.NeoWsAPIKey, cfg.NeoWsBaseURL, cfg.NeoWsTimeout, metrics, logger)
		source = neows.NewCachedSource(client, cfg.NeoWsCacheSize, metrics)
		metrics.NeoWsEnabled.Set(1)
		logger.Info("neows lookups enabled", "cache_size", cfg.NeoWsCacheSize, "timeout", cfg.NeoWsTimeout)
	} else {
		logger.Info("neows lookups disabled")
	}

	svc := simulation.NewService(calc, store, source, logger, metrics)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandlers(svc, logger), observability.ServiceName)

	deps := []httpadapter.Dependency{{Name: "simulation store", Checker: store}}

	// Streaming assessments (feature-flagged via KAFKA_ENABLED).
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
		p      *pipeline.Pipeline
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(svc, source, logger)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		deps = append(deps, httpadapter.Dependency{Name: "assessment pipeline", Checker: p})
		logger.Info("kafka pipeline enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
			"batch_size", cfg.BatchSize,
		)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.AllReady(deps...), router, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start assessment pipeline.
	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("simulation store close error", "error", err)
	}
	observability.ShutdownWithTimeout(shutdownCtx, shutdownTracing, logger)

	logger.Info("shutdown complete")
}
