// Command workboard-daemon runs the change-event daemon on its own, for
// service managers that start it before any workboard process.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/daemon"
	"github.com/MahdiIsse/project-management-sub001/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	logging.InitStderr(os.Getenv("WORKBOARD_DEBUG") != "")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	server, err := daemon.NewServer(cfg.SocketPath,
		daemon.WithBuffers(cfg.Daemon.BroadcastBuffer, cfg.Daemon.ClientBuffer))
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	slog.Info("workboard daemon starting", "socket_path", cfg.SocketPath, "pid", os.Getpid())

	// Blocks until shutdown
	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("workboard daemon shutting down gracefully")
}
