package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/college-predictor/prompt-manager-be/internal/cascade"
	"github.com/college-predictor/prompt-manager-be/internal/config"
	"github.com/college-predictor/prompt-manager-be/internal/database"
	"github.com/college-predictor/prompt-manager-be/internal/queue"
	"github.com/college-predictor/prompt-manager-be/internal/queue/workers"
	"github.com/college-predictor/prompt-manager-be/internal/store/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	coordinator := cascade.NewCoordinator(postgres.New(db))
	purgeWorker := workers.NewPurgeWorker(coordinator)

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeProjectPurge, asynq.HandlerFunc(purgeWorker.ProcessProjectPurge))
	registry.Register(queue.TypeCollectionPurge, asynq.HandlerFunc(purgeWorker.ProcessCollectionPurge))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
