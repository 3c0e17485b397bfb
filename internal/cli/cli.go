// Package cli holds what every workboard command shares: the backend it
// talks to, the board client on top of it, output formatting and exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MahdiIsse/project-management-sub001/internal/apiclient"
	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/config"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/filters"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
	"github.com/MahdiIsse/project-management-sub001/internal/user"
)

// Backend is what the commands need from a local database or a remote
// server. Both app.Direct and apiclient.Client provide it.
type Backend interface {
	board.Backend
	GetWorkspace(ctx context.Context, id types.WorkspaceID) (*models.Workspace, error)
	ListTasksFiltered(ctx context.Context, workspaceID types.WorkspaceID, f filters.TaskFilterParams) ([]models.Task, error)
	UploadAvatar(ctx context.Context, id types.AssigneeID, filename string, r io.Reader) (*models.Assignee, error)
	CleanupUserData(ctx context.Context) error
	SeedOnboardingData(ctx context.Context) error
}

var (
	_ Backend = (*app.Direct)(nil)
	_ Backend = (*apiclient.Client)(nil)
)

// CLI represents the CLI application context
type CLI struct {
	Config  *config.Config
	Backend Backend
	Board   *board.Client

	// Events is the daemon connection of a local CLI, nil otherwise
	Events  events.EventPublisher
	closers []func() error
}

// Options select how NewCLI reaches the data
type Options struct {
	Remote bool
}

// New wraps an existing backend. The board gets a fresh cache tuned by cfg.
func New(cfg *config.Config, b Backend) *CLI {
	cache := querycache.New(querycache.WithDefaultStaleTime(cfg.Cache.StaleAfter.Std()))
	return &CLI{
		Config:  cfg,
		Backend: b,
		Board:   board.New(b, cache, board.WithWorkspaceRetry(cfg.Cache.Retries())),
	}
}

// NewCLI opens the configured backend. Locally that is the SQLite database
// plus an optional daemon connection; remotely it is the HTTP API.
func NewCLI(ctx context.Context, cfg *config.Config, opts Options) (*CLI, error) {
	if opts.Remote {
		if cfg.API.Token == "" {
			return nil, fmt.Errorf("%w: no API token configured", auth.ErrNotAuthenticated)
		}
		return New(cfg, apiclient.New(cfg.API.BaseURL, cfg.API.Token)), nil
	}

	db, err := database.InitDB(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var appOpts []app.Option

	// The daemon is optional; without it other clients just miss the change
	var eventClient events.EventPublisher
	client := events.NewClient(cfg.SocketPath, events.WithDebounce(cfg.Daemon.Debounce()))
	if err := client.Connect(ctx); err != nil {
		slog.Debug("daemon not reachable, running without change events", "error", err)
	} else {
		eventClient = client
		appOpts = append(appOpts, app.WithEventPublisher(client))
	}

	bucket, err := storage.NewBucket(cfg.Storage.Dir, cfg.Storage.PublicBaseURL, cfg.Storage.MaxUploadSize)
	if err != nil {
		slog.Warn("avatar storage unavailable", "dir", cfg.Storage.Dir, "error", err)
	} else {
		appOpts = append(appOpts, app.WithBucket(bucket))
	}

	application := app.New(db, appOpts...)
	c := New(cfg, application.Direct(user.LocalOwner()))
	c.Events = eventClient
	c.closers = append(c.closers, application.Close, db.Close)
	return c, nil
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	var first error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
