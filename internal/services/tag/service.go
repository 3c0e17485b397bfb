package tag

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

const maxNameLength = 100

// Service defines all tag-related business operations
type Service interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id types.TagID) (*models.Tag, error)
	CreateTag(ctx context.Context, req CreateTagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, id types.TagID, req UpdateTagRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, id types.TagID) error
}

// CreateTagRequest contains the parameters for creating a tag.
// Color is a palette name or label, or a #RRGGBB value; empty means gray.
type CreateTagRequest struct {
	Name  string
	Color string
}

type UpdateTagRequest struct {
	Name  *string
	Color *string
}

type repository interface {
	List(ctx context.Context, owner types.OwnerID) ([]models.Tag, error)
	Get(ctx context.Context, owner types.OwnerID, id types.TagID) (*models.Tag, error)
	Create(ctx context.Context, owner types.OwnerID, t models.Tag) (*models.Tag, error)
	Update(ctx context.Context, owner types.OwnerID, t models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, owner types.OwnerID, id types.TagID) error
}

type service struct {
	repo        repository
	eventClient events.EventPublisher
}

func NewService(repo repository, eventClient events.EventPublisher) Service {
	return &service{repo: repo, eventClient: eventClient}
}

func (s *service) ListTags(ctx context.Context) ([]models.Tag, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner)
}

func (s *service) GetTag(ctx context.Context, id types.TagID) (*models.Tag, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Valid() {
		return nil, ErrInvalidTagID
	}
	t, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (s *service) CreateTag(ctx context.Context, req CreateTagRequest) (*models.Tag, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}

	color, err := normalizeColor(req.Color)
	if err != nil {
		return nil, err
	}
	t := models.Tag{Name: strings.TrimSpace(req.Name), Color: color}
	if err := validateName(t.Name); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, owner, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.publish(ctx)
	return created, nil
}

func (s *service) UpdateTag(ctx context.Context, id types.TagID, req UpdateTagRequest) (*models.Tag, error) {
	current, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, _ := auth.UserFromContext(ctx)

	merged := *current
	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
		if err := validateName(merged.Name); err != nil {
			return nil, err
		}
	}
	if req.Color != nil {
		if merged.Color, err = normalizeColor(*req.Color); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, owner, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", mapErr(err))
	}

	s.publish(ctx)
	return updated, nil
}

func (s *service) DeleteTag(ctx context.Context, id types.TagID) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}
	if !id.Valid() {
		return ErrInvalidTagID
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", mapErr(err))
	}

	s.publish(ctx)
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// normalizeColor stores palette colours by internal name and hex colours verbatim
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return models.DefaultTagColor, nil
	}
	if models.IsHexColor(color) {
		return color, nil
	}
	if c, ok := models.LookupTagColor(color); ok {
		return c.Name, nil
	}
	return "", ErrInvalidColor
}

func mapErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrTagNotFound
	}
	return err
}

// publish notifies every workspace: tags are shared across the owner's boards
func (s *service) publish(ctx context.Context) {
	if s.eventClient == nil {
		return
	}
	owner, _ := auth.UserFromContext(ctx)
	if err := s.eventClient.SendEvent(events.Event{
		Type:   events.EventDatabaseChanged,
		Entity: events.EntityTag,
		Owner:  string(owner),
	}); err != nil {
		slog.Warn("failed to send tag event", "error", err)
	}
}
