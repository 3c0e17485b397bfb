// Package app wires the repositories, services and event publisher into one
// container. Front ends that talk to the local database build an App; the
// API server builds one per process and serves every owner from it.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/services/account"
	"github.com/MahdiIsse/project-management-sub001/internal/services/assignee"
	"github.com/MahdiIsse/project-management-sub001/internal/services/column"
	"github.com/MahdiIsse/project-management-sub001/internal/services/tag"
	"github.com/MahdiIsse/project-management-sub001/internal/services/task"
	"github.com/MahdiIsse/project-management-sub001/internal/services/workspace"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
)

// App holds all application services
type App struct {
	repo        *database.Repository
	eventClient events.EventPublisher
	bucket      *storage.Bucket
	logger      *slog.Logger

	WorkspaceService workspace.Service
	ColumnService    column.Service
	TaskService      task.Service
	TagService       tag.Service
	AssigneeService  assignee.Service
	AccountService   account.Service
}

// New creates an App over db. Without WithEventPublisher no change events
// are sent; without WithBucket avatar uploads fail with
// assignee.ErrNoStorage.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	repo := database.NewRepository(db)
	a := &App{
		repo:        repo,
		eventClient: cfg.eventClient,
		bucket:      cfg.bucket,
		logger:      cfg.logger,

		WorkspaceService: workspace.NewService(repo.Workspaces, cfg.eventClient),
		ColumnService:    column.NewService(repo.Columns, cfg.eventClient),
		TaskService:      task.NewService(repo.Tasks, cfg.eventClient),
		TagService:       tag.NewService(repo.Tags, cfg.eventClient),
		AccountService:   account.NewService(repo.Procedures, cfg.eventClient),
	}
	if cfg.bucket != nil {
		a.AssigneeService = assignee.NewService(repo.Assignees, cfg.bucket, cfg.eventClient)
	} else {
		// keep the uploader interface nil
		a.AssigneeService = assignee.NewService(repo.Assignees, nil, cfg.eventClient)
	}
	return a
}

// Repo returns the underlying repositories
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Bucket returns the avatar bucket, or nil
func (a *App) Bucket() *storage.Bucket {
	return a.bucket
}

// Events returns the publisher services send change events to, or nil
func (a *App) Events() events.EventPublisher {
	return a.eventClient
}

// Close releases the event publisher. The database belongs to the caller.
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	if err := a.eventClient.Close(); err != nil {
		a.logger.Error("error closing event client", "error", err)
		return err
	}
	return nil
}
