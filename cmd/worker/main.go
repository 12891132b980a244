package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/queue"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/workerproc"
)

type consumeFunc func(ctx context.Context, cfg queue.ConsumerConfig, handle queue.Handler) error

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, queue.Consume); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, consume consumeFunc) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}

	dbOpts := db.OptionsFromEnv(db.DefaultWorkerOptions())
	app, err := bootstrap.BuildWithOptions(ctx, cfg, bootstrap.Options{
		DBOptions:      &dbOpts,
		SkipMigrations: true,
		SkipPublisher:  true,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	consumerCfg := queue.ConsumerConfig{
		URL:         cfg.AMQPURL,
		Queue:       cfg.RenderQueue,
		Concurrency: cfg.WorkerConcurrency,
	}
	telemetry.Info("worker.start", map[string]any{"queue": consumerCfg.Queue, "concurrency": consumerCfg.Concurrency})

	done := make(chan error, 1)
	go func() {
		done <- consume(ctx, consumerCfg, workerproc.NewHandler(app.GeneratedResumesService))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	telemetry.Info("worker.shutdown", map[string]any{"timeout_ms": cfg.ShutdownTimeout.Milliseconds()})
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		telemetry.Warn("worker.shutdown.timeout", map[string]any{"reason": "exiting with in-flight jobs"})
		return nil
	}
}
