package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

const maxTitleLength = 255

// Service defines all task-related business operations
type Service interface {
	// Read operations
	ListTasks(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Task, error)
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, id types.TaskID, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) error
	UpdateTaskPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.TaskPosition) error

	// Relation operations
	AddAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error)
	RemoveAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error)
	AddTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error)
	RemoveTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error)
}

// CreateTaskRequest contains the parameters for creating a task
type CreateTaskRequest struct {
	WorkspaceID types.WorkspaceID // Optional: checked against the column's workspace when set
	ColumnID    types.ColumnID
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string // Empty means models.DefaultPriority
	Position    *int   // nil appends to the column
	AssigneeIDs []types.AssigneeID
	TagIDs      []types.TagID
}

// UpdateTaskRequest contains the parameters for updating a task.
// Nil fields keep their stored value.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *string
	ColumnID     *types.ColumnID
}

type repository interface {
	ListByWorkspace(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID) ([]models.Task, error)
	Get(ctx context.Context, owner types.OwnerID, id types.TaskID) (*models.Task, error)
	Create(ctx context.Context, owner types.OwnerID, t models.Task, position *int) (*models.Task, error)
	Update(ctx context.Context, owner types.OwnerID, t models.Task) (*models.Task, error)
	Delete(ctx context.Context, owner types.OwnerID, id types.TaskID) error
	UpdatePositions(ctx context.Context, owner types.OwnerID, positions []models.TaskPosition) error
	AddAssignee(ctx context.Context, owner types.OwnerID, taskID types.TaskID, assigneeID types.AssigneeID) error
	RemoveAssignee(ctx context.Context, owner types.OwnerID, taskID types.TaskID, assigneeID types.AssigneeID) error
	AddTag(ctx context.Context, owner types.OwnerID, taskID types.TaskID, tagID types.TagID) error
	RemoveTag(ctx context.Context, owner types.OwnerID, taskID types.TaskID, tagID types.TagID) error
}

type service struct {
	repo        repository
	eventClient events.EventPublisher
}

// NewService creates a new task service
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{repo: repo, eventClient: eventClient}
}

func (s *service) ListTasks(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Task, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !workspaceID.Valid() {
		return nil, ErrInvalidWorkspaceID
	}
	tasks, err := s.repo.ListByWorkspace(ctx, owner, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *service) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Valid() {
		return nil, ErrInvalidTaskID
	}
	t, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, mapErr(err, ErrTaskNotFound)
	}
	return t, nil
}

func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !req.ColumnID.Valid() {
		return nil, ErrInvalidColumnID
	}

	priority := models.DefaultPriority
	if strings.TrimSpace(req.Priority) != "" {
		if priority, err = models.ParsePriority(req.Priority); err != nil {
			return nil, err
		}
	}

	t := models.Task{
		WorkspaceID: req.WorkspaceID,
		ColumnID:    req.ColumnID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
		Priority:    priority,
	}
	if err := validateTitle(t.Title); err != nil {
		return nil, err
	}
	for _, id := range req.AssigneeIDs {
		if !id.Valid() {
			return nil, ErrInvalidAssigneeID
		}
		t.Assignees = append(t.Assignees, models.Assignee{ID: id})
	}
	for _, id := range req.TagIDs {
		if !id.Valid() {
			return nil, ErrInvalidTagID
		}
		t.Tags = append(t.Tags, models.Tag{ID: id})
	}

	created, err := s.repo.Create(ctx, owner, t, req.Position)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) && (len(t.Assignees) > 0 || len(t.Tags) > 0) {
			return nil, fmt.Errorf("failed to create task: %w", ErrRelatedNotFound)
		}
		return nil, fmt.Errorf("failed to create task: %w", mapErr(err, ErrColumnNotFound))
	}

	s.publish(ctx, created.WorkspaceID)
	return created, nil
}

// UpdateTask merges req over the stored task and writes every scalar field
func (s *service) UpdateTask(ctx context.Context, id types.TaskID, req UpdateTaskRequest) (*models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, _ := auth.UserFromContext(ctx)

	merged := current.Clone()
	if req.Title != nil {
		merged.Title = strings.TrimSpace(*req.Title)
		if err := validateTitle(merged.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		merged.Description = strings.TrimSpace(*req.Description)
	}
	if req.ClearDueDate {
		merged.DueDate = nil
	} else if req.DueDate != nil {
		due := *req.DueDate
		merged.DueDate = &due
	}
	if req.Priority != nil {
		p, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		merged.Priority = p
	}
	if req.ColumnID != nil {
		if !req.ColumnID.Valid() {
			return nil, ErrInvalidColumnID
		}
		merged.ColumnID = *req.ColumnID
	}

	updated, err := s.repo.Update(ctx, owner, merged)
	if err != nil {
		notFound := ErrTaskNotFound
		if merged.ColumnID != current.ColumnID {
			notFound = ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", mapErr(err, notFound))
	}

	s.publish(ctx, updated.WorkspaceID)
	return updated, nil
}

func (s *service) DeleteTask(ctx context.Context, id types.TaskID) error {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	owner, _ := auth.UserFromContext(ctx)

	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", mapErr(err, ErrTaskNotFound))
	}

	s.publish(ctx, current.WorkspaceID)
	return nil
}

// UpdateTaskPositions moves and reorders tasks in one transaction.
// workspaceID only scopes the change event; the repository checks every
// task against its own workspace.
func (s *service) UpdateTaskPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.TaskPosition) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		if !p.ID.Valid() {
			return ErrInvalidTaskID
		}
		if !p.ColumnID.Valid() {
			return ErrInvalidColumnID
		}
	}
	if len(positions) == 0 {
		return nil
	}

	if err := s.repo.UpdatePositions(ctx, owner, positions); err != nil {
		return fmt.Errorf("failed to update task positions: %w", mapErr(err, ErrTaskNotFound))
	}

	s.publish(ctx, workspaceID)
	return nil
}

func (s *service) AddAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	if !assigneeID.Valid() {
		return nil, ErrInvalidAssigneeID
	}
	return s.relate(ctx, taskID, func(owner types.OwnerID) error {
		return s.repo.AddAssignee(ctx, owner, taskID, assigneeID)
	})
}

func (s *service) RemoveAssignee(ctx context.Context, taskID types.TaskID, assigneeID types.AssigneeID) (*models.Task, error) {
	if !assigneeID.Valid() {
		return nil, ErrInvalidAssigneeID
	}
	return s.relate(ctx, taskID, func(owner types.OwnerID) error {
		return s.repo.RemoveAssignee(ctx, owner, taskID, assigneeID)
	})
}

func (s *service) AddTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	if !tagID.Valid() {
		return nil, ErrInvalidTagID
	}
	return s.relate(ctx, taskID, func(owner types.OwnerID) error {
		return s.repo.AddTag(ctx, owner, taskID, tagID)
	})
}

func (s *service) RemoveTag(ctx context.Context, taskID types.TaskID, tagID types.TagID) (*models.Task, error) {
	if !tagID.Valid() {
		return nil, ErrInvalidTagID
	}
	return s.relate(ctx, taskID, func(owner types.OwnerID) error {
		return s.repo.RemoveTag(ctx, owner, taskID, tagID)
	})
}

// relate runs a join-table change against an existing task and returns
// the task as stored afterwards.
func (s *service) relate(ctx context.Context, taskID types.TaskID, change func(types.OwnerID) error) (*models.Task, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	owner, _ := auth.UserFromContext(ctx)

	if err := change(owner); err != nil {
		return nil, fmt.Errorf("failed to update task relations: %w", mapErr(err, ErrRelatedNotFound))
	}

	updated, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated.WorkspaceID)
	return updated, nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func mapErr(err, notFound error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFound
	case errors.Is(err, database.ErrColumnOutsideWorkspace):
		return ErrColumnOutsideWorkspace
	}
	return err
}

func (s *service) publish(ctx context.Context, workspaceID types.WorkspaceID) {
	if s.eventClient == nil {
		return
	}
	owner, _ := auth.UserFromContext(ctx)
	if err := s.eventClient.SendEvent(events.Event{
		Type:        events.EventDatabaseChanged,
		WorkspaceID: workspaceID.Int(),
		Entity:      events.EntityTask,
		Owner:       string(owner),
	}); err != nil {
		slog.Warn("failed to send task event", "workspace_id", workspaceID, "error", err)
	}
}
