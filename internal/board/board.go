// Package board is the client side of the board: cached list queries for
// every entity and optimistic mutations that go through querycache.Mutate.
// Front ends hold one Client and re-read its queries after every change.
package board

import (
	"context"
	"errors"
	"time"

	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/querycache"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// ErrParentNotCached is returned by a reorder that was given no parent id
// and could not find the parent in any cached list.
var ErrParentNotCached = errors.New("parent workspace not found in cache")

// Backend is the store the client writes through. The direct backend calls
// the services in-process; the API client speaks HTTP.
type Backend interface {
	ListWorkspaces(ctx context.Context) ([]models.Workspace, error)
	CreateWorkspace(ctx context.Context, in WorkspaceInput) (*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, id types.WorkspaceID, patch WorkspacePatch) (*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error
	UpdateWorkspacePositions(ctx context.Context, positions []models.WorkspacePosition) error

	ListColumns(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Column, error)
	CreateColumn(ctx context.Context, in ColumnInput) (*models.Column, error)
	UpdateColumn(ctx context.Context, id types.ColumnID, patch ColumnPatch) (*models.Column, error)
	DeleteColumn(ctx context.Context, id types.ColumnID) error
	UpdateColumnPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error

	ListTasks(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Task, error)
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	CreateTask(ctx context.Context, in TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id types.TaskID, patch TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	UpdateTaskPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.TaskPosition) error
	AddAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error)
	RemoveAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error)
	AddTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error)
	RemoveTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id types.TagID) (*models.Tag, error)
	CreateTag(ctx context.Context, in TagInput) (*models.Tag, error)
	UpdateTag(ctx context.Context, id types.TagID, patch TagPatch) (*models.Tag, error)
	DeleteTag(ctx context.Context, id types.TagID) error

	ListAssignees(ctx context.Context) ([]models.Assignee, error)
	GetAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error)
	CreateAssignee(ctx context.Context, in AssigneeInput) (*models.Assignee, error)
	UpdateAssignee(ctx context.Context, id types.AssigneeID, patch AssigneePatch) (*models.Assignee, error)
	DeleteAssignee(ctx context.Context, id types.AssigneeID) error
}

// Input and patch types. Patch fields left nil are not changed. Position
// is nil when the caller wants the record appended.

type WorkspaceInput struct {
	Title       string
	Description string
	Color       string
	Position    *int
}

type WorkspacePatch struct {
	Title       *string
	Description *string
	Color       *string
}

type ColumnInput struct {
	WorkspaceID types.WorkspaceID
	Title       string
	Color       string
	Position    *int
}

type ColumnPatch struct {
	Title *string
	Color *string
}

type TaskInput struct {
	WorkspaceID types.WorkspaceID
	ColumnID    types.ColumnID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority // empty means models.DefaultPriority
	Position    *int
	AssigneeIDs []types.AssigneeID
	TagIDs      []types.TagID
}

type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *models.Priority
	ColumnID     *types.ColumnID
}

type TagInput struct {
	Name  string
	Color string
}

type TagPatch struct {
	Name  *string
	Color *string
}

type AssigneeInput struct {
	Name      string
	AvatarURL string
}

type AssigneePatch struct {
	Name      *string
	AvatarURL *string
}

// Item is one cached record. Records created optimistically carry a
// Pending ref until the backend answers.
type Item[T any] struct {
	Ref   types.Ref
	Value T
}

// Cache keys
const (
	WorkspacesKey querycache.Key = "workspaces"
	TagsKey       querycache.Key = "tags"
	AssigneesKey  querycache.Key = "assignees"

	columnsPrefix querycache.Key = "columns"
	tasksPrefix   querycache.Key = "tasks"
)

func ColumnsKey(id types.WorkspaceID) querycache.Key { return querycache.KeyOf(columnsPrefix, id) }
func TasksKey(id types.WorkspaceID) querycache.Key   { return querycache.KeyOf(tasksPrefix, id) }

// Client runs queries and optimistic mutations against one cache
type Client struct {
	Cache   *querycache.Cache
	Backend Backend

	workspaceRetry int
	retryDelay     time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithWorkspaceRetry sets how many times the workspace list fetch is
// retried. The default is one retry.
func WithWorkspaceRetry(n int) Option {
	return func(c *Client) { c.workspaceRetry = n }
}

// WithRetryDelay sets the pause before a retried fetch
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New creates a client. A nil cache gets a fresh one.
func New(backend Backend, cache *querycache.Cache, opts ...Option) *Client {
	if cache == nil {
		cache = querycache.New()
	}
	c := &Client{
		Cache:          cache,
		Backend:        backend,
		workspaceRetry: 1,
		retryDelay:     querycache.DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh marks every cached query stale
func (c *Client) Refresh() {
	c.Cache.InvalidatePrefix("")
}
