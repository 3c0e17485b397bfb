package assignee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

const maxNameLength = 100

// Service defines all assignee-related business operations
type Service interface {
	ListAssignees(ctx context.Context) ([]models.Assignee, error)
	GetAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error)
	CreateAssignee(ctx context.Context, req CreateAssigneeRequest) (*models.Assignee, error)
	UpdateAssignee(ctx context.Context, id types.AssigneeID, req UpdateAssigneeRequest) (*models.Assignee, error)
	DeleteAssignee(ctx context.Context, id types.AssigneeID) error

	// UploadAvatar stores an image in the public bucket and saves its URL
	// on the assignee. A previous bucket avatar is removed.
	UploadAvatar(ctx context.Context, id types.AssigneeID, filename string, r io.Reader) (*models.Assignee, error)
}

type CreateAssigneeRequest struct {
	Name      string
	AvatarURL string
}

type UpdateAssigneeRequest struct {
	Name      *string
	AvatarURL *string // Empty string clears the avatar
}

type repository interface {
	List(ctx context.Context, owner types.OwnerID) ([]models.Assignee, error)
	Get(ctx context.Context, owner types.OwnerID, id types.AssigneeID) (*models.Assignee, error)
	Create(ctx context.Context, owner types.OwnerID, a models.Assignee) (*models.Assignee, error)
	Update(ctx context.Context, owner types.OwnerID, a models.Assignee) (*models.Assignee, error)
	Delete(ctx context.Context, owner types.OwnerID, id types.AssigneeID) error
}

// uploader is satisfied by *storage.Bucket
type uploader interface {
	Upload(ctx context.Context, prefix, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

type service struct {
	repo        repository
	bucket      uploader
	eventClient events.EventPublisher
}

// NewService creates a new assignee service. bucket may be nil, in which
// case UploadAvatar fails with ErrNoStorage.
func NewService(repo repository, bucket uploader, eventClient events.EventPublisher) Service {
	return &service{repo: repo, bucket: bucket, eventClient: eventClient}
}

func (s *service) ListAssignees(ctx context.Context) ([]models.Assignee, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner)
}

func (s *service) GetAssignee(ctx context.Context, id types.AssigneeID) (*models.Assignee, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.Valid() {
		return nil, ErrInvalidAssigneeID
	}
	a, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *service) CreateAssignee(ctx context.Context, req CreateAssigneeRequest) (*models.Assignee, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}

	a := models.Assignee{
		Name:      strings.TrimSpace(req.Name),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
	}
	if err := validate(a); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, owner, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignee: %w", err)
	}

	s.publish(ctx)
	return created, nil
}

func (s *service) UpdateAssignee(ctx context.Context, id types.AssigneeID, req UpdateAssigneeRequest) (*models.Assignee, error) {
	current, err := s.GetAssignee(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
	}
	if req.AvatarURL != nil {
		merged.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if err := validate(merged); err != nil {
		return nil, err
	}
	return s.save(ctx, merged)
}

func (s *service) DeleteAssignee(ctx context.Context, id types.AssigneeID) error {
	current, err := s.GetAssignee(ctx, id)
	if err != nil {
		return err
	}
	owner, _ := auth.UserFromContext(ctx)

	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete assignee: %w", mapErr(err))
	}
	s.removeAvatar(ctx, current.AvatarURL)

	s.publish(ctx)
	return nil
}

func (s *service) UploadAvatar(ctx context.Context, id types.AssigneeID, filename string, r io.Reader) (*models.Assignee, error) {
	if s.bucket == nil {
		return nil, ErrNoStorage
	}
	current, err := s.GetAssignee(ctx, id)
	if err != nil {
		return nil, err
	}

	publicURL, err := s.bucket.Upload(ctx, "assignees/"+id.String(), filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	merged := *current
	merged.AvatarURL = publicURL
	updated, err := s.save(ctx, merged)
	if err != nil {
		s.removeAvatar(ctx, publicURL)
		return nil, err
	}

	s.removeAvatar(ctx, current.AvatarURL)
	return updated, nil
}

func (s *service) save(ctx context.Context, a models.Assignee) (*models.Assignee, error) {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, owner, a)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignee: %w", mapErr(err))
	}
	s.publish(ctx)
	return updated, nil
}

// removeAvatar deletes a bucket file; failures only leave an orphan behind
func (s *service) removeAvatar(ctx context.Context, publicURL string) {
	if s.bucket == nil || publicURL == "" {
		return
	}
	if err := s.bucket.Delete(ctx, publicURL); err != nil {
		slog.Warn("failed to remove avatar", "url", publicURL, "error", err)
	}
}

func validate(a models.Assignee) error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(a.Name) > maxNameLength {
		return ErrNameTooLong
	}
	if a.AvatarURL != "" {
		u, err := url.Parse(a.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidAvatarURL
		}
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrAssigneeNotFound
	}
	return err
}

func (s *service) publish(ctx context.Context) {
	if s.eventClient == nil {
		return
	}
	owner, _ := auth.UserFromContext(ctx)
	if err := s.eventClient.SendEvent(events.Event{
		Type:   events.EventDatabaseChanged,
		Entity: events.EntityAssignee,
		Owner:  string(owner),
	}); err != nil {
		slog.Warn("failed to send assignee event", "error", err)
	}
}
