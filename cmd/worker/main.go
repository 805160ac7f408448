package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fileclerk/fileclerkai/internal/bootstrap"
	"github.com/fileclerk/fileclerkai/internal/config"
	"github.com/fileclerk/fileclerkai/internal/observability/logging"
	"github.com/fileclerk/fileclerkai/internal/observability/metrics"
)

const serviceName = "fileclerk-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	if cfg.QueueDriver != "nats" {
		logger.Error("worker requires QUEUE_DRIVER=nats; the inline scheduler completes tasks in the api process")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeTaskCreated(ctx, func(handlerCtx context.Context, taskID string) error {
		if task, err := app.Tasks.GetByID(handlerCtx, taskID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(task.CreatedAt))
		}

		workerMetrics.StartCompletion()
		started := time.Now()

		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()
		err := app.Processor.ProcessByID(processCtx, taskID)

		workerMetrics.FinishCompletion(serviceName, time.Since(started), err)
		return err
	})
	if err != nil {
		logger.Error("worker subscribe error", "error", err)
		os.Exit(1)
	}
}
