package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/daemon"
	"github.com/MahdiIsse/project-management-sub001/internal/logging"
)

func daemonCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Relay change events between local workboard processes",
		Long: `Run the change-event daemon on the configured unix socket (socket_path).

Every local CLI, board and API server connects to it; a change made by one
is broadcast to the others so their caches refetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitStderr(verbose)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			server, err := daemon.NewServer(cfg.SocketPath,
				daemon.WithBuffers(cfg.Daemon.BroadcastBuffer, cfg.Daemon.ClientBuffer))
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			slog.Info("workboard daemon starting", "socket_path", cfg.SocketPath, "pid", os.Getpid())
			if err := server.Start(cmd.Context()); err != nil {
				return err
			}
			slog.Info("workboard daemon shut down", "metrics", server.Metrics().GetSnapshot())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	return cmd
}
