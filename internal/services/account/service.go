// Package account runs the per-user maintenance procedures: wiping a
// user's data and seeding the onboarding board.
package account

import (
	"context"
	"log/slog"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

type Service interface {
	CleanupUserData(ctx context.Context) error
	SeedOnboardingData(ctx context.Context) error
}

type procedures interface {
	CleanupUserData(ctx context.Context, owner types.OwnerID) database.ProcResult
	SeedOnboardingData(ctx context.Context, owner types.OwnerID) database.ProcResult
}

type service struct {
	procs       procedures
	eventClient events.EventPublisher
}

func NewService(procs procedures, eventClient events.EventPublisher) Service {
	return &service{procs: procs, eventClient: eventClient}
}

func (s *service) CleanupUserData(ctx context.Context) error {
	return s.run(ctx, "cleanup_user_data", s.procs.CleanupUserData)
}

func (s *service) SeedOnboardingData(ctx context.Context) error {
	return s.run(ctx, "seed_onboarding_data", s.procs.SeedOnboardingData)
}

func (s *service) run(ctx context.Context, name string, proc func(context.Context, types.OwnerID) database.ProcResult) error {
	owner, err := auth.UserFromContext(ctx)
	if err != nil {
		return err
	}

	res := proc(ctx, owner)
	if !res.Success {
		return &ProcedureError{Procedure: name, Code: res.ErrorCode, Message: res.Error}
	}

	if s.eventClient != nil {
		if err := s.eventClient.SendEvent(events.Event{Type: events.EventDatabaseChanged, Owner: string(owner)}); err != nil {
			slog.Warn("failed to send account event", "procedure", name, "error", err)
		}
	}
	return nil
}
