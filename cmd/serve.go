package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MahdiIsse/project-management-sub001/internal/api"
	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/logging"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
)

func serveCmd() *cobra.Command {
	var (
		listen  string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the avatar bucket",
		Long: `Serve the REST API, the websocket change feed and the public avatar files.

Requires api.jwt_secret (or WORKBOARD_JWT_SECRET) to verify bearer tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitStderr(verbose)
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if listen != "" {
				cfg.API.Listen = listen
			}

			issuer, err := auth.NewIssuer(cfg.API.JWTSecret, cfg.API.TokenTTL.Std())
			if err != nil {
				return fmt.Errorf("%w: set api.jwt_secret or WORKBOARD_JWT_SECRET", err)
			}

			db, err := database.InitDB(ctx, cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					slog.Error("error closing database", "error", err)
				}
			}()

			bucket, err := storage.NewBucket(cfg.Storage.Dir, cfg.Storage.PublicBaseURL, cfg.Storage.MaxUploadSize)
			if err != nil {
				return err
			}

			// Websocket clients are fed from the local publisher; the daemon,
			// when running, relays the same changes to local CLIs and boards
			publishers := events.Tee{events.NewLocal()}
			daemonClient := events.NewClient(cfg.SocketPath, events.WithDebounce(cfg.Daemon.Debounce()))
			if err := daemonClient.Connect(ctx); err != nil {
				daemonErr := events.ClassifyDaemonError(err)
				slog.Info("daemon not reachable, local clients will not see API changes", "message", daemonErr.Message)
			} else {
				publishers = append(publishers, daemonClient)
			}

			application := app.New(db,
				app.WithEventPublisher(publishers),
				app.WithBucket(bucket),
				app.WithLogger(slog.Default()),
			)
			defer func() { _ = application.Close() }()

			server := api.NewServer(application, issuer, api.WithAllowedOrigins(cfg.API.AllowedOrigins...))
			return server.Run(ctx, cfg.API.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default api.listen)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	return cmd
}
