package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

const maxTitleLength = 100

// Service defines all workspace-related business operations
type Service interface {
	// Read operations
	ListWorkspaces(ctx context.Context) ([]models.Workspace, error)
	GetWorkspace(ctx context.Context, id types.WorkspaceID) (*models.Workspace, error)

	// Write operations
	CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, id types.WorkspaceID, req UpdateWorkspaceRequest) (*models.Workspace, error)
	DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error
	UpdateWorkspacePositions(ctx context.Context, positions []models.WorkspacePosition) error
}

// CreateWorkspaceRequest encapsulates data for creating a workspace
type CreateWorkspaceRequest struct {
	Title       string
	Description string
	Color       string
	Position    *int // Optional: nil appends after the existing workspaces
}

// UpdateWorkspaceRequest encapsulates a partial update; nil fields are kept
type UpdateWorkspaceRequest struct {
	Title       *string
	Description *string
	Color       *string
}

type repository interface {
	List(ctx context.Context, owner types.OwnerID) ([]models.Workspace, error)
	Get(ctx context.Context, owner types.OwnerID, id types.WorkspaceID) (*models.Workspace, error)
	Create(ctx context.Context, owner types.OwnerID, w models.Workspace, position *int) (*models.Workspace, error)
	Update(ctx context.Context, owner types.OwnerID, w models.Workspace) (*models.Workspace, error)
	Delete(ctx context.Context, owner types.OwnerID, id types.WorkspaceID) error
	UpdatePositions(ctx context.Context, owner types.OwnerID, positions []models.WorkspacePosition) error
}

type service struct {
	repo        repository
	eventClient events.EventPublisher
}

// NewService creates a new workspace service. eventClient may be nil.
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{repo: repo, eventClient: eventClient}
}

func (s *service) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner)
}

func (s *service) GetWorkspace(ctx context.Context, id types.WorkspaceID) (*models.Workspace, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Valid() {
		return nil, ErrInvalidWorkspaceID
	}
	w, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (s *service) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*models.Workspace, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}

	w := models.Workspace{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Color:       strings.TrimSpace(req.Color),
	}
	if err := validate(w); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, owner, w, req.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	s.publish(ctx, created.ID)
	return created, nil
}

// UpdateWorkspace merges req over the stored workspace and writes the result
func (s *service) UpdateWorkspace(ctx context.Context, id types.WorkspaceID, req UpdateWorkspaceRequest) (*models.Workspace, error) {
	current, err := s.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, _ := auth.UserFromContext(ctx)

	merged := *current
	if req.Title != nil {
		merged.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		merged.Description = strings.TrimSpace(*req.Description)
	}
	if req.Color != nil {
		merged.Color = strings.TrimSpace(*req.Color)
	}
	if err := validate(merged); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, owner, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", mapErr(err))
	}

	s.publish(ctx, id)
	return updated, nil
}

func (s *service) DeleteWorkspace(ctx context.Context, id types.WorkspaceID) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}
	if !id.Valid() {
		return ErrInvalidWorkspaceID
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", mapErr(err))
	}

	s.publish(ctx, id)
	return nil
}

// UpdateWorkspacePositions writes every position atomically
func (s *service) UpdateWorkspacePositions(ctx context.Context, positions []models.WorkspacePosition) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		if !p.ID.Valid() {
			return ErrInvalidWorkspaceID
		}
	}
	if len(positions) == 0 {
		return nil
	}
	if err := s.repo.UpdatePositions(ctx, owner, positions); err != nil {
		return fmt.Errorf("failed to update workspace positions: %w", mapErr(err))
	}

	// Ordering is owner-wide, so listeners of every workspace refresh
	s.publish(ctx, 0)
	return nil
}

func validate(w models.Workspace) error {
	if w.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(w.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if w.Color != "" && !models.IsHexColor(w.Color) {
		return ErrInvalidColor
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrWorkspaceNotFound
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
		Entity:      events.EntityWorkspace,
		Owner:       string(owner),
	}); err != nil {
		slog.Warn("failed to send workspace event", "workspace_id", workspaceID, "error", err)
	}
}
