// The mcp binary serves the FileClerk tools over stdio for AI assistant
// clients. Logs go to stderr so stdout stays clean for the protocol.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpadapter "github.com/fileclerk/fileclerkai/internal/adapters/mcp"
	"github.com/fileclerk/fileclerkai/internal/bootstrap"
	"github.com/fileclerk/fileclerkai/internal/config"
	"github.com/fileclerk/fileclerkai/internal/observability/logging"
)

const version = "0.1.0"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLoggerTo(os.Stderr, "fileclerk-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := mcpadapter.NewServer(version, mcpadapter.Services{
		Documents: app.Documents,
		Actions:   app.Actions,
		Voice:     app.Voice,
		Memories:  app.Memories,
		Tasks:     app.Tasks,
	}, logger)

	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
