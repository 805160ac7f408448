package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/fileclerk/fileclerkai/internal/adapters/http"
	"github.com/fileclerk/fileclerkai/internal/bootstrap"
	"github.com/fileclerk/fileclerkai/internal/config"
	"github.com/fileclerk/fileclerkai/internal/observability/logging"
	"github.com/fileclerk/fileclerkai/internal/observability/metrics"
)

const serviceName = "fileclerk-api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(serviceName, httpadapter.Dependencies{
		Auth:       app.Auth,
		Documents:  app.Documents,
		Actions:    app.Actions,
		Voice:      app.Voice,
		Memories:   app.Memories,
		Activities: app.Activities,
		Tasks:      app.Tasks,
		Metrics:    metrics.NewHTTPServerMetrics(serviceName),
	}, httpadapter.TrafficControl{
		RateLimitRPS:   cfg.APIRateLimitRPS,
		RateLimitBurst: cfg.APIRateLimitBurst,
		MaxConcurrent:  cfg.APIMaxConcurrent,
		QueueWait:      time.Duration(cfg.APIQueueWaitMS) * time.Millisecond,
	})

	server := &http.Server{
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		logger.Error("listen failed", "port", cfg.APIPort, "error", err)
		os.Exit(1)
	}
	listener = netutil.LimitListener(listener, cfg.MaxConnections)

	go func() {
		logger.Info("api listening",
			"port", cfg.APIPort,
			"store_driver", cfg.StoreDriver,
			"queue_driver", cfg.QueueDriver,
			"max_connections", cfg.MaxConnections,
		)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("api server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
