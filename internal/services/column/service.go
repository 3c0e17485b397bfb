package column

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

// Service defines all column-related business operations
type Service interface {
	ListColumns(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Column, error)
	GetColumn(ctx context.Context, id types.ColumnID) (*models.Column, error)
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	UpdateColumn(ctx context.Context, id types.ColumnID, req UpdateColumnRequest) (*models.Column, error)
	DeleteColumn(ctx context.Context, id types.ColumnID) error
	UpdateColumnPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error
}

// CreateColumnRequest contains the parameters for creating a new column
type CreateColumnRequest struct {
	WorkspaceID types.WorkspaceID
	Title       string
	Color       string
	Position    *int // nil appends to the right of the existing columns
}

// UpdateColumnRequest contains the parameters for updating a column
type UpdateColumnRequest struct {
	Title *string
	Color *string
}

type repository interface {
	ListByWorkspace(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID) ([]models.Column, error)
	Get(ctx context.Context, owner types.OwnerID, id types.ColumnID) (*models.Column, error)
	Create(ctx context.Context, owner types.OwnerID, c models.Column, position *int) (*models.Column, error)
	Update(ctx context.Context, owner types.OwnerID, c models.Column) (*models.Column, error)
	Delete(ctx context.Context, owner types.OwnerID, id types.ColumnID) error
	UpdatePositions(ctx context.Context, owner types.OwnerID, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error
}

type service struct {
	repo        repository
	eventClient events.EventPublisher
}

// NewService creates a new column service
func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{repo: repo, eventClient: eventClient}
}

func (s *service) ListColumns(ctx context.Context, workspaceID types.WorkspaceID) ([]models.Column, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !workspaceID.Valid() {
		return nil, ErrInvalidWorkspaceID
	}
	columns, err := s.repo.ListByWorkspace(ctx, owner, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

func (s *service) GetColumn(ctx context.Context, id types.ColumnID) (*models.Column, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Valid() {
		return nil, ErrInvalidColumnID
	}
	c, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, mapErr(err, ErrColumnNotFound)
	}
	return c, nil
}

func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !req.WorkspaceID.Valid() {
		return nil, ErrInvalidWorkspaceID
	}

	c := models.Column{
		WorkspaceID: req.WorkspaceID,
		Title:       strings.TrimSpace(req.Title),
		Color:       strings.TrimSpace(req.Color),
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, owner, c, req.Position)
	if err != nil {
		// The only lookup a create performs is the parent workspace
		return nil, fmt.Errorf("failed to create column: %w", mapErr(err, ErrWorkspaceNotFound))
	}

	s.publish(ctx, created.WorkspaceID)
	return created, nil
}

func (s *service) UpdateColumn(ctx context.Context, id types.ColumnID, req UpdateColumnRequest) (*models.Column, error) {
	current, err := s.GetColumn(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, _ := auth.UserFromContext(ctx)

	merged := *current
	if req.Title != nil {
		merged.Title = strings.TrimSpace(*req.Title)
	}
	if req.Color != nil {
		merged.Color = strings.TrimSpace(*req.Color)
	}
	if err := validate(merged); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, owner, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to update column: %w", mapErr(err, ErrColumnNotFound))
	}

	s.publish(ctx, updated.WorkspaceID)
	return updated, nil
}

// DeleteColumn removes the column together with its tasks
func (s *service) DeleteColumn(ctx context.Context, id types.ColumnID) error {
	current, err := s.GetColumn(ctx, id)
	if err != nil {
		return err
	}
	owner, _ := auth.UserFromContext(ctx)

	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete column: %w", mapErr(err, ErrColumnNotFound))
	}

	s.publish(ctx, current.WorkspaceID)
	return nil
}

func (s *service) UpdateColumnPositions(ctx context.Context, workspaceID types.WorkspaceID, positions []models.ColumnPosition) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}
	if !workspaceID.Valid() {
		return ErrInvalidWorkspaceID
	}
	for _, p := range positions {
		if !p.ID.Valid() {
			return ErrInvalidColumnID
		}
	}
	if len(positions) == 0 {
		return nil
	}

	if err := s.repo.UpdatePositions(ctx, owner, workspaceID, positions); err != nil {
		return fmt.Errorf("failed to update column positions: %w", mapErr(err, ErrColumnNotFound))
	}

	s.publish(ctx, workspaceID)
	return nil
}

func validate(c models.Column) error {
	if c.Title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(c.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if c.Color != "" && !models.IsHexColor(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func mapErr(err, notFound error) error {
	if errors.Is(err, database.ErrNotFound) {
		return notFound
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
		Entity:      events.EntityColumn,
		Owner:       string(owner),
	}); err != nil {
		slog.Warn("failed to send column event", "workspace_id", workspaceID, "error", err)
	}
}
